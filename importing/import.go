package importing

import (
	"context"
	"encoding/json"
	"github.com/hauke96/sigolo/v2"
	"github.com/pkg/errors"
	"net/http"
	"net/url"
	"nlr/feature"
	"nlr/index"
	ownIo "nlr/io"
	"nlr/util"
	"strconv"
	"time"
)

// MaxPages stops the download of services that never stop reporting an exceeded transfer limit.
const MaxPages = 500

// Download fetches all pages of the EsriJSON service and returns the features sorted as required by the index.
func Download(ctx context.Context, client *http.Client, sourceUrl string) (*feature.Store, error) {
	sigolo.Infof("Download road network from %s", sourceUrl)
	downloadStartTime := time.Now()

	var features []feature.Feature

	for page := 0; ; page++ {
		if page >= MaxPages {
			return nil, errors.Errorf("Download failed: Safety limit of %d pages exceeded", MaxPages)
		}

		featureSet, err := downloadPage(ctx, client, sourceUrl, len(features))
		if err != nil {
			return nil, err
		}

		if len(featureSet.Features) == 0 {
			break
		}

		for _, esriFeature := range featureSet.Features {
			f, err := esriFeature.toFeature()
			if err != nil {
				return nil, errors.Wrapf(err, "Unable to convert feature of page %d", page)
			}
			features = append(features, f)
		}

		sigolo.Debugf("Downloaded page %d, now having %d features", page, len(features))

		if !featureSet.ExceededTransferLimit {
			break
		}
	}

	if len(features) == 0 {
		return nil, errors.Wrap(index.ErrEmptyDataset, "Download failed: No features were received")
	}

	sigolo.Infof("Downloaded %d features in %s, sorting them", len(features), time.Since(downloadStartTime))
	feature.SortFeatures(features)

	store := feature.NewStore(features)
	if !store.IsSorted() {
		util.LogFatalBug("Downloaded features are not sorted after sorting them")
	}

	return store, nil
}

func downloadPage(ctx context.Context, client *http.Client, sourceUrl string, offset int) (*esriFeatureSet, error) {
	pageUrl, err := url.Parse(sourceUrl)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to parse data source URL %s", sourceUrl)
	}

	values := pageUrl.Query()
	values.Set("resultOffset", strconv.Itoa(offset))
	pageUrl.RawQuery = values.Encode()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, pageUrl.String(), nil)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to create request for offset %d", offset)
	}

	response, err := client.Do(request)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to download features at offset %d", offset)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, errors.Errorf("Unable to download features at offset %d: Service responded with status %s", offset, response.Status)
	}

	featureSet := &esriFeatureSet{}
	err = json.NewDecoder(response.Body).Decode(featureSet)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to parse EsriJSON at offset %d", offset)
	}

	if featureSet.GeometryType != "" && featureSet.GeometryType != esriGeometryPolyline {
		return nil, errors.Errorf("Unable to use features at offset %d: Expected geometry type %s but got %s", offset, esriGeometryPolyline, featureSet.GeometryType)
	}

	return featureSet, nil
}

// Import downloads the road network and replaces the dataset cache file with it.
func Import(ctx context.Context, client *http.Client, sourceUrl string, dataFile string) (*feature.Store, error) {
	store, err := Download(ctx, client, sourceUrl)
	if err != nil {
		return nil, err
	}

	err = ownIo.WriteDatasetFile(dataFile, store)
	if err != nil {
		return nil, err
	}

	return store, nil
}

// LoadOrDownload reads the dataset cache file and falls back to a fresh download when the file can't be read or an
// update is forced. A downloaded dataset that can't be cached is still returned.
func LoadOrDownload(ctx context.Context, client *http.Client, sourceUrl string, dataFile string, forceUpdate bool) (*feature.Store, error) {
	if !forceUpdate {
		store, err := ownIo.ReadDatasetFile(dataFile)
		if err == nil {
			return store, nil
		}
		sigolo.Warnf("Could not read the dataset file, will try to download fresh data: %s", err.Error())
	}

	if sourceUrl == "" {
		return nil, errors.Errorf("Unable to download the dataset: No data source URL configured")
	}

	store, err := Download(ctx, client, sourceUrl)
	if err != nil {
		return nil, err
	}

	err = ownIo.WriteDatasetFile(dataFile, store)
	if err != nil {
		sigolo.Warnf("Could not save the dataset file, data will be downloaded again next time: %s", err.Error())
	}

	return store, nil
}
