package runstore

import (
	"encoding/json"
	"errors"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"
	"go.etcd.io/bbolt"
)

var (
	runsBucket = []byte("runs")

	ErrRunNotFound = errors.New("run not found")
)

// Record is one persisted experiment run. Report holds the harness report
// as written to the report file.
type Record struct {
	RunID      string          `json:"run_id"`
	Dataset    string          `json:"dataset"`
	CreatedAt  time.Time       `json:"created_at"`
	Algorithms []string        `json:"algorithms"`
	Trials     int             `json:"trials"`
	Report     json.RawMessage `json:"report"`
}

type RunStore struct {
	db *bbolt.DB
}

// Open opens or creates the bolt file at dbPath with the runs bucket.
func Open(dbPath string) (*RunStore, error) {
	boltDB, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = boltDB.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(runsBucket)
		return err
	})
	if err != nil {
		boltDB.Close()
		return nil, err
	}
	return &RunStore{db: boltDB}, nil
}

func (rs *RunStore) Close() error {
	return rs.db.Close()
}

// Put stores record under its run id, replacing an earlier one.
func (rs *RunStore) Put(record *Record) error {
	if record.RunID == "" {
		return errors.New("run id is empty")
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return err
	}
	err = rs.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(runsBucket).Put([]byte(record.RunID), raw)
	})
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{"run_id": record.RunID, "dataset": record.Dataset}).Debug("Stored run record.")
	return nil
}

func (rs *RunStore) Get(runID string) (*Record, error) {
	var record *Record
	err := rs.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(runsBucket).Get([]byte(runID))
		if raw == nil {
			return ErrRunNotFound
		}
		record = &Record{}
		return json.Unmarshal(raw, record)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// List returns every record of dataset, oldest first. An empty dataset
// lists all runs.
func (rs *RunStore) List(dataset string) ([]*Record, error) {
	records := make([]*Record, 0)
	err := rs.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(runsBucket).ForEach(func(_, raw []byte) error {
			record := &Record{}
			if err := json.Unmarshal(raw, record); err != nil {
				return err
			}
			if dataset == "" || record.Dataset == dataset {
				records = append(records, record)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	return records, nil
}

func (rs *RunStore) Delete(runID string) error {
	return rs.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(runsBucket).Delete([]byte(runID))
	})
}
