package transaction

import (
	"bufio"
	"encoding/binary"
	"io"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	log "github.com/sirupsen/logrus"
)

const maxLineBytes = 16 * 1024 * 1024

// Store holds a whole dataset in memory. It is read-only after Load and
// safe for concurrent readers.
type Store struct {
	transactions []Transaction
	maxItem      int
	distinct     int
	fingerprint  uint64
}

// Load parses one transaction per line. A blank line is an empty transaction.
func Load(r io.Reader) (*Store, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	store := &Store{transactions: make([]Transaction, 0), maxItem: -1}
	seen := make(map[int]struct{})
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		items := make([]int, 0, len(fields))
		for _, token := range fields {
			item, err := strconv.Atoi(token)
			if err != nil || item < 0 {
				return nil, &ParseError{Line: lineNum, Token: token}
			}
			items = append(items, item)
			seen[item] = struct{}{}
			if item > store.maxItem {
				store.maxItem = item
			}
		}
		store.transactions = append(store.transactions, New(items...))
	}
	if err := scanner.Err(); err != nil {
		return nil, &IOError{Err: err}
	}
	store.distinct = len(seen)
	store.fingerprint = fingerprint(store.transactions)
	return store, nil
}

func LoadFile(path string) (*Store, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	defer file.Close()

	store, err := Load(file)
	if err != nil {
		if ioErr, ok := err.(*IOError); ok {
			ioErr.Path = path
		}
		return nil, err
	}

	log.WithFields(log.Fields{"path": path, "transactions": store.Count(),
		"distinct_items": store.DistinctItems()}).Info("Loaded dataset.")
	return store, nil
}

// NewStore builds a store from already parsed transactions.
func NewStore(transactions []Transaction) *Store {
	store := &Store{transactions: transactions, maxItem: -1}
	seen := make(map[int]struct{})
	for _, t := range transactions {
		for _, item := range t.Items() {
			seen[item] = struct{}{}
			if item > store.maxItem {
				store.maxItem = item
			}
		}
	}
	store.distinct = len(seen)
	store.fingerprint = fingerprint(transactions)
	return store
}

// fingerprint hashes the transactions in order, each as its length followed
// by its sorted items.
func fingerprint(transactions []Transaction) uint64 {
	digest := xxhash.New()
	buf := make([]byte, 8)
	for _, t := range transactions {
		binary.LittleEndian.PutUint64(buf, uint64(t.Len()))
		digest.Write(buf)
		for _, item := range t.Items() {
			binary.LittleEndian.PutUint64(buf, uint64(item))
			digest.Write(buf)
		}
	}
	return digest.Sum64()
}

func (s *Store) Count() int {
	return len(s.transactions)
}

// SampleUniform draws one transaction uniformly at random with replacement.
// It panics on an empty store; callers check Count first.
func (s *Store) SampleUniform(rng *rand.Rand) Transaction {
	return s.transactions[rng.Intn(len(s.transactions))]
}

func (s *Store) At(i int) Transaction {
	return s.transactions[i]
}

// All returns the backing slice for full scans. It must not be modified.
func (s *Store) All() []Transaction {
	return s.transactions
}

// MaxItem is the largest item id seen, or -1 for a store without items.
func (s *Store) MaxItem() int {
	return s.maxItem
}

func (s *Store) DistinctItems() int {
	return s.distinct
}

// Fingerprint identifies the dataset content. Stores with the same
// transactions in the same order share it.
func (s *Store) Fingerprint() uint64 {
	return s.fingerprint
}
