package io

import (
	"bytes"
	"github.com/paulmach/orb"
	"nlr/feature"
	"nlr/util"
	"path/filepath"
	"testing"
)

func testStore() *feature.Store {
	return feature.NewStore([]feature.Feature{
		{
			Attributes: feature.Attributes{Road: "H001", Carriageway: feature.Left, StartSlk: 0, EndSlk: 1.5},
			Geometry:   orb.LineString{{115.8, -31.9}, {115.9, -31.95}},
		},
		{
			Attributes: feature.Attributes{Road: "H001", Carriageway: feature.Single, StartSlk: 1.5, EndSlk: 2},
			Geometry:   orb.LineString{{115.9, -31.95}, {116, -32}},
		},
	})
}

func TestDataset_writeRead(t *testing.T) {
	// Arrange
	store := testStore()
	buffer := &bytes.Buffer{}

	// Act
	err := WriteDataset(buffer, store)
	util.AssertNil(t, err)
	readStore, err := ReadDataset(buffer)

	// Assert
	util.AssertNil(t, err)
	util.AssertEqual(t, store.Features(), readStore.Features())
}

func TestDataset_writeReadFile(t *testing.T) {
	// Arrange
	store := testStore()
	filename := filepath.Join(t.TempDir(), "data", "data.json.lz4")

	// Act
	err := WriteDatasetFile(filename, store)
	util.AssertNil(t, err)
	readStore, err := ReadDatasetFile(filename)

	// Assert
	util.AssertNil(t, err)
	util.AssertEqual(t, 2, readStore.Len())
	util.AssertEqual(t, store.Features(), readStore.Features())
}

func TestDataset_readUncompressedFails(t *testing.T) {
	// Arrange
	buffer := bytes.NewBufferString(`{"features":[]}`)

	// Act
	readStore, err := ReadDataset(buffer)

	// Assert
	util.AssertNotNil(t, err)
	util.AssertNil(t, readStore)
}

func TestDataset_readMissingFile(t *testing.T) {
	// Act
	readStore, err := ReadDatasetFile(filepath.Join(t.TempDir(), "missing.json.lz4"))

	// Assert
	util.AssertNotNil(t, err)
	util.AssertNil(t, readStore)
}
