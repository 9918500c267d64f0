package ecs

import "fmt"

// Parent links an entity to its parent. DeleteSubtree follows this relation.
type Parent struct {
	Entity EntityId
}

// Children returns the direct children of parent in table order.
func Children(storage *Storage, parent EntityId) []EntityId {
	table := typedTable[Parent](storage)
	if table == nil {
		return nil
	}
	var children []EntityId
	for id := range table.Entities() {
		if table.Lookup(id).Entity == parent {
			children = append(children, id)
		}
	}
	return children
}

// DeleteSubtree deletes root and every entity transitively linked to it through
// Parent. It fails without deleting anything if root is not alive.
func DeleteSubtree(root EntityId, storage *Storage) error {
	if !storage.Alive(root) {
		return fmt.Errorf("delete subtree of %d: %w", root, ErrEntityNotFound)
	}

	doomed := []EntityId{root}
	table := typedTable[Parent](storage)
	if table != nil {
		children := make(map[EntityId][]EntityId)
		for id := range table.Entities() {
			parent := table.Lookup(id).Entity
			children[parent] = append(children[parent], id)
		}

		visited := map[EntityId]bool{root: true}
		for i := 0; i < len(doomed); i++ {
			for _, child := range children[doomed[i]] {
				if visited[child] {
					continue
				}
				visited[child] = true
				doomed = append(doomed, child)
			}
		}
	}

	for _, id := range doomed {
		storage.Delete(id)
	}
	return nil
}
