package ecs

import "reflect"

// StorageStats summarises the contents of a Storage.
type StorageStats struct {
	TableCount       int
	TotalEntityCount int
	SingletonCount   int
	TableBreakdown   []TableStats
	SingletonTypes   []string
}

// TableStats describes one component table.
type TableStats struct {
	ComponentType string
	RowCount      int
}

// CollectStats gathers table, entity and singleton counts. Tables and singleton
// types are sorted by type name.
func (s *Storage) CollectStats() *StorageStats {
	stats := &StorageStats{
		TableCount:       len(s.tables),
		TotalEntityCount: s.pool.live,
		SingletonCount:   len(s.singletons),
	}

	for _, t := range sortTypes(s.RegisteredTypes()) {
		stats.TableBreakdown = append(stats.TableBreakdown, TableStats{
			ComponentType: t.String(),
			RowCount:      s.tables[t].Len(),
		})
	}

	singletonTypes := make([]reflect.Type, 0, len(s.singletons))
	for t := range s.singletons {
		singletonTypes = append(singletonTypes, t)
	}
	for _, t := range sortTypes(singletonTypes) {
		stats.SingletonTypes = append(stats.SingletonTypes, t.String())
	}

	return stats
}
