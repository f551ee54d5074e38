package interpreter

import (
	"github.com/dgraph-io/ristretto"

	"github.com/oarkflow/cmdlang"
)

// Cache memoizes parsed programs by source text. Parsing is deterministic
// and programs are never mutated by the interpreter, so a cached program can
// be shared by concurrent runs. Failed parses are not cached.
type Cache struct {
	cache      *ristretto.Cache
	parserOpts []cmdlang.ParserOption
}

func NewCache(maxPrograms int64, opts ...cmdlang.ParserOption) (*Cache, error) {
	if maxPrograms <= 0 {
		maxPrograms = 1024
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxPrograms * 10,
		MaxCost:     maxPrograms,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Cache{cache: cache, parserOpts: opts}, nil
}

func (c *Cache) Parse(source string) (*cmdlang.Program, error) {
	if v, ok := c.cache.Get(source); ok {
		if program, ok := v.(*cmdlang.Program); ok {
			return program, nil
		}
	}
	program, err := cmdlang.Parse(source, c.parserOpts...)
	if err != nil {
		return nil, err
	}
	c.cache.Set(source, program, 1)
	return program, nil
}

// Wait blocks until pending cache writes are applied.
func (c *Cache) Wait() {
	c.cache.Wait()
}

func (c *Cache) Close() {
	c.cache.Close()
}
