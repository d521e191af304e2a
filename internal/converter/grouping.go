package converter

import (
	"sort"

	"github.com/ginjaninja78/packing-slip-generator/internal/types"
)

// GroupByOrder partitions items by sales order number.
//
// Groups come back in ascending order number. Inside a group the items keep
// the order they had in items, and Meta is the first of them. Every input
// item lands in exactly one group.
func GroupByOrder(items []types.LineItem) []types.OrderGroup {
	if len(items) == 0 {
		return nil
	}

	index := make(map[int64]int)
	var groups []types.OrderGroup
	for _, item := range items {
		i, ok := index[item.OrderNumber]
		if !ok {
			i = len(groups)
			index[item.OrderNumber] = i
			groups = append(groups, types.OrderGroup{OrderNumber: item.OrderNumber, Meta: item})
		}
		groups[i].Items = append(groups[i].Items, item)
	}

	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].OrderNumber < groups[b].OrderNumber
	})
	return groups
}
