package normalizer

import (
	"strconv"

	"github.com/riskibarqy/d2webapi/internal/domain/entity"
	"github.com/riskibarqy/d2webapi/internal/domain/match"
)

// slots resolves prefix0..prefixN-1 into a list of exactly count items.
func (n *Normalizer) slots(obj Object, prefix string, count int) []entity.Item {
	out := make([]entity.Item, count)
	for i := range out {
		out[i] = n.item(obj.popOptionalID(prefix + strconv.Itoa(i)))
	}
	return out
}

func (n *Normalizer) inventoryUnit(obj Object) match.InventoryUnit {
	return match.InventoryUnit{
		Inventory: n.slots(obj, "item_", match.InventorySlots),
		Backpack:  n.slots(obj, "backpack_", match.BackpackSlots),
	}
}
