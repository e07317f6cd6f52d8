package service

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sync"
)

// Internal code range, inclusive.
const (
	CodeMin = 100000
	CodeMax = 999999
)

// CodeGenerator draws internal codes uniformly from [CodeMin, CodeMax].
// It is safe for concurrent use.
type CodeGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewCodeGenerator returns a generator seeded from crypto/rand.
func NewCodeGenerator() *CodeGenerator {
	var seed [16]byte
	if _, err := crand.Read(seed[:]); err != nil {
		panic("seeding code generator: " + err.Error())
	}
	return NewSeededCodeGenerator(
		binary.LittleEndian.Uint64(seed[:8]),
		binary.LittleEndian.Uint64(seed[8:]),
	)
}

// NewSeededCodeGenerator returns a deterministic generator.
func NewSeededCodeGenerator(seed1, seed2 uint64) *CodeGenerator {
	return &CodeGenerator{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

// Next returns the next internal code.
func (g *CodeGenerator) Next() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return CodeMin + g.rng.IntN(CodeMax-CodeMin+1)
}

var defaultCodes = NewCodeGenerator()

// DefaultCodeGenerator returns the process-wide generator.
func DefaultCodeGenerator() *CodeGenerator {
	return defaultCodes
}
