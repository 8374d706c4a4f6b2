package normalizer

import (
	"github.com/riskibarqy/d2webapi/internal/domain/entity"
	"github.com/riskibarqy/d2webapi/internal/domain/match"
)

const towerBits = 11

// buildingsFrom decodes tower and barracks bitfields. An absent field leaves its group unknown.
func buildingsFrom(towers, barracks entity.OptionalID) match.Buildings {
	var out match.Buildings
	if towers.Valid {
		out.SetTowerStatus(towers.Value)
	}
	if barracks.Valid {
		out.SetBarracksStatus(barracks.Value)
	}
	return out
}

// SplitBuildingState splits the combined building_state of a top live game into
// its dire and radiant tower bitfields.
func SplitBuildingState(state int64) (dire, radiant int64) {
	return state >> towerBits, state & (1<<towerBits - 1)
}
