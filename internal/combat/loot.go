package combat

import (
	"fmt"

	"github.com/pixil98/mudcore/internal/game"
)

// DropLoot rolls a loot table, places the items in the room and returns them
// along with the gold rolled. Unknown tables drop nothing.
func (e *Engine) DropLoot(roomId, tableId string) ([]*game.ItemInstance, int) {
	if tableId == "" {
		return nil, 0
	}
	table := e.catalog.LootTable(tableId)
	if table == nil {
		return nil, 0
	}

	var items []*game.ItemInstance
	for _, entry := range table.Entries {
		if e.rng.IntN(100) >= entry.Chance {
			continue
		}
		it := game.NewItemInstance(entry.ItemId)
		e.world.AddItem(roomId, it)
		items = append(items, it)
	}

	gold := table.MinGold
	if table.MaxGold > table.MinGold {
		gold += e.rng.IntN(table.MaxGold - table.MinGold + 1)
	}
	return items, gold
}

func goldMessage(n int) string {
	return fmt.Sprintf("You find %d gold.", n)
}

func xpMessage(n int) string {
	return fmt.Sprintf("You receive %d experience points.", n)
}
