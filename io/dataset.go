package io

import (
	"encoding/json"
	"github.com/hauke96/sigolo/v2"
	"github.com/pierrec/lz4/v4"
	"github.com/pkg/errors"
	"io"
	"nlr/feature"
	"os"
	"path/filepath"
	"time"
)

// dataset is the document stored in the cache file.
type dataset struct {
	Features []feature.Feature `json:"features"`
}

// ReadDatasetFile reads the LZ4 compressed JSON cache file. The features in the file are expected to be sorted.
func ReadDatasetFile(filename string) (*feature.Store, error) {
	sigolo.Infof("Load dataset from %s", filename)
	readStartTime := time.Now()

	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to open dataset file %s", filename)
	}
	defer file.Close()

	store, err := ReadDataset(file)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to read dataset file %s", filename)
	}

	sigolo.Infof("Loaded %d features in %s", store.Len(), time.Since(readStartTime))
	return store, nil
}

func ReadDataset(reader io.Reader) (*feature.Store, error) {
	lz4Reader := lz4.NewReader(reader)

	var document dataset
	err := json.NewDecoder(lz4Reader).Decode(&document)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to decode compressed dataset")
	}

	return feature.NewStore(document.Features), nil
}

// WriteDatasetFile replaces the cache file with the given features. Missing parent directories are created.
func WriteDatasetFile(filename string, store *feature.Store) (err error) {
	sigolo.Infof("Write %d features to dataset file %s", store.Len(), filename)
	writeStartTime := time.Now()

	err = os.MkdirAll(filepath.Dir(filename), os.ModePerm)
	if err != nil {
		return errors.Wrapf(err, "Unable to create directory for dataset file %s", filename)
	}

	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "Unable to create dataset file %s", filename)
	}

	defer func() {
		closeErr := file.Close()
		if err == nil && closeErr != nil {
			err = errors.Wrapf(closeErr, "Unable to close file handle for dataset file %s", filename)
		}
	}()

	err = WriteDataset(file, store)
	if err != nil {
		return errors.Wrapf(err, "Unable to write dataset file %s", filename)
	}

	sigolo.Infof("Finished writing dataset in %s", time.Since(writeStartTime))
	return nil
}

func WriteDataset(writer io.Writer, store *feature.Store) error {
	lz4Writer := lz4.NewWriter(writer)

	err := json.NewEncoder(lz4Writer).Encode(dataset{Features: store.Features()})
	if err != nil {
		return errors.Wrap(err, "Unable to encode dataset")
	}

	err = lz4Writer.Close()
	if err != nil {
		return errors.Wrap(err, "Unable to finish LZ4 frame")
	}

	return nil
}
