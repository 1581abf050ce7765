package memory

import (
	"testing"

	"filevault/pkg/metadata"
	"filevault/pkg/metadata/storetest"
)

// TestMemoryMetadataStore runs the complete metadata.Store test suite
// against the in-memory implementation.
func TestMemoryMetadataStore(t *testing.T) {
	suite := &storetest.StoreTestSuite{
		NewStore: func(t *testing.T) metadata.Store {
			return NewMemoryMetadataStore()
		},
	}

	suite.Run(t)
}
