package contracts

import (
	"sort"

	"github.com/AlexZinkM/devnet-accounts/internal/model"
	"github.com/AlexZinkM/devnet-accounts/internal/store"
)

// Deployed is one listed contract
type Deployed struct {
	Key string `json:"key"` // name, or name-<n> when the group holds several
	model.Entry
}

// List returns the deployed contracts of group, sorted by key. An empty group lists every group.
func List(st *store.Store, group string) (map[string][]Deployed, error) {
	all, err := st.GetAll(model.KindContracts)
	if err != nil {
		return nil, err
	}

	result := make(map[string][]Deployed, len(all))
	for g, entries := range all {
		if group != "" && g != group {
			continue
		}
		list := make([]Deployed, 0, len(entries))
		for key, entry := range entries {
			list = append(list, Deployed{Key: key, Entry: entry})
		}
		sort.Slice(list, func(i, j int) bool { return list[i].Key < list[j].Key })
		result[g] = list
	}
	return result, nil
}
