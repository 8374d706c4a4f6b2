package match

// TowerNames is the bit order of tower_status values: bit i belongs to TowerNames[i].
var TowerNames = [11]string{
	"top_t1", "top_t2", "top_t3",
	"mid_t1", "mid_t2", "mid_t3",
	"bot_t1", "bot_t2", "bot_t3",
	"bot_ancient", "top_ancient",
}

// BarracksNames is the bit order of barracks_status values.
var BarracksNames = [6]string{
	"top_melee", "top_ranged",
	"mid_melee", "mid_ranged",
	"bot_melee", "bot_ranged",
}

// Buildings holds intact flags for one side. The Known flags report whether the
// source bitfield was present at all.
type Buildings struct {
	TowersKnown   bool `json:"towers_known"`
	BarracksKnown bool `json:"barracks_known"`

	TopT1      bool `json:"top_t1"`
	TopT2      bool `json:"top_t2"`
	TopT3      bool `json:"top_t3"`
	MidT1      bool `json:"mid_t1"`
	MidT2      bool `json:"mid_t2"`
	MidT3      bool `json:"mid_t3"`
	BotT1      bool `json:"bot_t1"`
	BotT2      bool `json:"bot_t2"`
	BotT3      bool `json:"bot_t3"`
	BotAncient bool `json:"bot_ancient"`
	TopAncient bool `json:"top_ancient"`

	TopMelee  bool `json:"top_melee"`
	TopRanged bool `json:"top_ranged"`
	MidMelee  bool `json:"mid_melee"`
	MidRanged bool `json:"mid_ranged"`
	BotMelee  bool `json:"bot_melee"`
	BotRanged bool `json:"bot_ranged"`
}

func (b *Buildings) towers() [11]*bool {
	return [11]*bool{
		&b.TopT1, &b.TopT2, &b.TopT3,
		&b.MidT1, &b.MidT2, &b.MidT3,
		&b.BotT1, &b.BotT2, &b.BotT3,
		&b.BotAncient, &b.TopAncient,
	}
}

func (b *Buildings) barracks() [6]*bool {
	return [6]*bool{
		&b.TopMelee, &b.TopRanged,
		&b.MidMelee, &b.MidRanged,
		&b.BotMelee, &b.BotRanged,
	}
}

// SetTowerStatus decodes bit i of status into TowerNames[i]. Bits past the last tower are ignored.
func (b *Buildings) SetTowerStatus(status int64) {
	for i, field := range b.towers() {
		*field = status&(1<<i) != 0
	}
	b.TowersKnown = true
}

func (b *Buildings) SetBarracksStatus(status int64) {
	for i, field := range b.barracks() {
		*field = status&(1<<i) != 0
	}
	b.BarracksKnown = true
}

// Tower reports the status of a tower by name.
func (b Buildings) Tower(name string) (bool, bool) {
	fields := b.towers()
	for i, candidate := range TowerNames {
		if candidate == name {
			return *fields[i], true
		}
	}
	return false, false
}

func (b Buildings) Barracks(name string) (bool, bool) {
	fields := b.barracks()
	for i, candidate := range BarracksNames {
		if candidate == name {
			return *fields[i], true
		}
	}
	return false, false
}
