package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bherp/internal/core/id"
	"bherp/internal/core/types"
)

func stockItem(name string, qty string) *Item {
	item := New(id.New(), "ART-"+name, name, "kom")
	item.Quantity = types.MustMoney(qty)
	return item
}

func TestDeplete(t *testing.T) {
	t.Run("matched items lose exactly the sold quantity", func(t *testing.T) {
		a := stockItem("cement", "100")
		b := stockItem("pijesak", "40")

		changed := Deplete([]*Item{a, b}, map[id.ID]types.Money{
			a.ID: types.MustMoney("30"),
			b.ID: types.MustMoney("12.5"),
		})

		require.Len(t, changed, 2)
		byID := map[id.ID]*Item{changed[0].ID: changed[0], changed[1].ID: changed[1]}
		assert.True(t, byID[a.ID].Quantity.Equal(types.MustMoney("70")))
		assert.True(t, byID[b.ID].Quantity.Equal(types.MustMoney("27.5")))
	})

	t.Run("unmatched items are not rewritten", func(t *testing.T) {
		a := stockItem("cement", "100")
		b := stockItem("pijesak", "40")

		changed := Deplete([]*Item{a, b}, map[id.ID]types.Money{
			a.ID: types.MustMoney("5"),
		})

		require.Len(t, changed, 1)
		assert.Equal(t, a.ID, changed[0].ID)
	})

	t.Run("zero sold quantity is a no-op", func(t *testing.T) {
		a := stockItem("cement", "100")
		changed := Deplete([]*Item{a}, map[id.ID]types.Money{
			a.ID: types.Zero(),
		})
		assert.Empty(t, changed)
	})

	t.Run("stock may go negative", func(t *testing.T) {
		a := stockItem("cement", "10")
		changed := Deplete([]*Item{a}, map[id.ID]types.Money{
			a.ID: types.MustMoney("25"),
		})
		require.Len(t, changed, 1)
		assert.True(t, changed[0].Quantity.Equal(types.MustMoney("-15")))
	})

	t.Run("input snapshot is not mutated", func(t *testing.T) {
		a := stockItem("cement", "100")
		Deplete([]*Item{a}, map[id.ID]types.Money{a.ID: types.MustMoney("30")})
		assert.True(t, a.Quantity.Equal(types.MustMoney("100")))
	})

	t.Run("empty sold map returns nothing", func(t *testing.T) {
		a := stockItem("cement", "100")
		assert.Empty(t, Deplete([]*Item{a}, nil))
	})
}
