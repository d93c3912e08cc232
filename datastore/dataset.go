package datastore

import (
	"bytes"
	"io/ioutil"
	"os"

	cache "github.com/hashicorp/golang-lru"
	log "github.com/sirupsen/logrus"

	C "itemfreq/config"
	"itemfreq/filestore"
	T "itemfreq/transaction"
)

// DatasetStore hands out loaded transaction stores. Lookups go through an
// LRU cache, then the disk, then the dataset's cloud bucket. Objects read
// from a bucket are mirrored to disk.
type DatasetStore struct {
	diskFileManager   filestore.FileManager
	cloudFileManagers map[string]filestore.FileManager

	storeCache *cache.Cache
}

func New(cacheSize int, diskManager filestore.FileManager,
	cloudManagers map[string]filestore.FileManager) (*DatasetStore, error) {

	storeCache, err := cache.New(cacheSize)
	if err != nil {
		return nil, err
	}
	if cloudManagers == nil {
		cloudManagers = make(map[string]filestore.FileManager)
	}
	return &DatasetStore{
		diskFileManager:   diskManager,
		cloudFileManagers: cloudManagers,
		storeCache:        storeCache,
	}, nil
}

func (ds *DatasetStore) getStoreFromCache(name string) (*T.Store, bool) {
	storeIface, ok := ds.storeCache.Get(name)
	if !ok {
		return nil, false
	}
	store, ok := storeIface.(*T.Store)
	return store, ok
}

func (ds *DatasetStore) getRawFromDisk(dataset C.DatasetConf) ([]byte, error) {
	path, fName := ds.diskFileManager.GetDatasetFilePathAndName(dataset.Path)
	file, err := ds.diskFileManager.Get(path, fName)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ioutil.ReadAll(file)
}

func (ds *DatasetStore) getRawFromCloud(dataset C.DatasetConf) ([]byte, error) {
	fileManager, exists := ds.cloudFileManagers[dataset.Source]
	if !exists {
		return nil, os.ErrNotExist
	}
	path, fName := fileManager.GetDatasetFilePathAndName(dataset.Path)
	file, err := fileManager.Get(path, fName)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ioutil.ReadAll(file)
}

func (ds *DatasetStore) putRawInDisk(dataset C.DatasetConf, raw []byte) error {
	path, fName := ds.diskFileManager.GetDatasetFilePathAndName(dataset.Path)
	return ds.diskFileManager.Create(path, fName, bytes.NewReader(raw))
}

// GetStore returns the parsed dataset, loading it on first use.
func (ds *DatasetStore) GetStore(dataset C.DatasetConf) (*T.Store, error) {
	logCtx := log.WithFields(log.Fields{
		"dataset": dataset.Name,
		"source":  dataset.Source,
	})
	logCtx.Debugln("[DatasetStore] GetStore")

	store, foundInCache := ds.getStoreFromCache(dataset.Name)
	if foundInCache {
		return store, nil
	}

	writeToDisk := false
	raw, err := ds.getRawFromDisk(dataset)
	if err != nil {
		if !os.IsNotExist(err) || dataset.Source == C.StorageDisk || dataset.Source == "" {
			return nil, &T.IOError{Path: dataset.Path, Err: err}
		}
		writeToDisk = true
		raw, err = ds.getRawFromCloud(dataset)
		if err != nil {
			return nil, &T.IOError{Path: dataset.Path, Err: err}
		}
	}

	store, err = T.Load(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	ds.storeCache.Add(dataset.Name, store)
	logCtx.WithFields(log.Fields{"transactions": store.Count(),
		"distinct_items": store.DistinctItems()}).Info("Loaded dataset.")

	if writeToDisk {
		if err := ds.putRawInDisk(dataset, raw); err != nil {
			logCtx.WithError(err).Error("Failed to mirror dataset to disk")
		}
	}
	return store, nil
}

// Purge drops every cached store.
func (ds *DatasetStore) Purge() {
	ds.storeCache.Purge()
}

func (ds *DatasetStore) Len() int {
	return ds.storeCache.Len()
}
