package datagen

import (
	"bufio"
	"io"
	"math/rand"
	"sort"
	"strconv"

	"github.com/pkg/errors"

	T "itemfreq/transaction"
)

var ErrInvalidOptions = errors.New("invalid generator options")

// Options shape a synthetic basket dataset. Item popularity follows a Zipf
// law with exponent ZipfS over ids 1..Items, so low ids are the frequent ones.
type Options struct {
	Transactions int     `json:"transactions"`
	Items        int     `json:"items"`
	AvgLength    int     `json:"avg_length"`
	ZipfS        float64 `json:"zipf_s"`
	Seed         int64   `json:"seed"`
}

func (o Options) validate() error {
	if o.Transactions < 1 || o.Items < 1 || o.AvgLength < 1 {
		return errors.Wrapf(ErrInvalidOptions, "%+v", o)
	}
	if o.ZipfS <= 1 {
		return errors.Wrapf(ErrInvalidOptions, "zipf exponent must be above 1, got %v", o.ZipfS)
	}
	return nil
}

// Generator yields one transaction at a time.
type Generator struct {
	opts Options
	rng  *rand.Rand
	zipf *rand.Zipf
}

func New(opts Options) (*Generator, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(opts.Seed))
	return &Generator{
		opts: opts,
		rng:  rng,
		zipf: rand.NewZipf(rng, opts.ZipfS, 1, uint64(opts.Items-1)),
	}, nil
}

// maxZipfDrawsPerItem bounds rejection sampling in Next. Under a steep Zipf
// law the rare ids almost never come up, so long transactions are topped up
// uniformly from the ids not chosen yet.
const maxZipfDrawsPerItem = 8

// Next returns the sorted, distinct item ids of the next transaction.
// Lengths are uniform on [1, 2*AvgLength-1] and capped at Items.
func (g *Generator) Next() []int {
	length := 1 + g.rng.Intn(2*g.opts.AvgLength-1)
	if length > g.opts.Items {
		length = g.opts.Items
	}
	seen := make(map[int]struct{}, length)
	items := make([]int, 0, length)
	for draws := 0; len(items) < length && draws < maxZipfDrawsPerItem*length; draws++ {
		item := int(g.zipf.Uint64()) + 1
		if _, exists := seen[item]; exists {
			continue
		}
		seen[item] = struct{}{}
		items = append(items, item)
	}
	if len(items) < length {
		items = g.fillUniform(items, seen, length)
	}
	sort.Ints(items)
	return items
}

func (g *Generator) fillUniform(items []int, seen map[int]struct{}, length int) []int {
	rest := make([]int, 0, g.opts.Items-len(items))
	for item := 1; item <= g.opts.Items; item++ {
		if _, exists := seen[item]; !exists {
			rest = append(rest, item)
		}
	}
	g.rng.Shuffle(len(rest), func(i, j int) { rest[i], rest[j] = rest[j], rest[i] })
	return append(items, rest[:length-len(items)]...)
}

// Write emits opts.Transactions lines in the dataset text format.
func Write(w io.Writer, opts Options) error {
	g, err := New(opts)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 64)
	for t := 0; t < opts.Transactions; t++ {
		buf = buf[:0]
		for i, item := range g.Next() {
			if i > 0 {
				buf = append(buf, ' ')
			}
			buf = strconv.AppendInt(buf, int64(item), 10)
		}
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// GenerateStore builds the dataset in memory.
func GenerateStore(opts Options) (*T.Store, error) {
	g, err := New(opts)
	if err != nil {
		return nil, err
	}
	txs := make([]T.Transaction, opts.Transactions)
	for t := range txs {
		txs[t] = T.New(g.Next()...)
	}
	return T.NewStore(txs), nil
}
