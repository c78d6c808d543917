// Package cas stores encoded programs by content hash so repeated loads of
// the same source reuse one decoded program.
package cas

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/dgryski/go-farm"
	"github.com/lumen-dev/lumen/vm"
)

type CAS interface {
	Put(item Hashable) (Hash, error)
	Has(hash Hash) bool
	getValue(h Hash) (bool, []byte, error)
}

type Serde interface {
	Serialize(w io.Writer) error
	Deserialize(r io.Reader) error
}

type Hashable interface {
	Serde
}

type Hash uint64

func (h Hash) String() string {
	return fmt.Sprintf("%016x", uint64(h))
}

// HashBytes is the content hash used for every entry.
func HashBytes(b []byte) Hash {
	return Hash(farm.Hash64(b))
}

var ErrNotFound = errors.New("hash not found in CAS")

// Program adapts a vm.Program to the store.
type Program struct {
	*vm.Program
}

func (p *Program) Serialize(w io.Writer) error {
	if p.Program == nil {
		return errors.New("nil program")
	}
	return vm.EncodeProgram(w, p.Program)
}

func (p *Program) Deserialize(r io.Reader) error {
	prog, err := vm.DecodeProgram(r)
	if err != nil {
		return err
	}
	p.Program = prog
	return nil
}

// Retrieve decodes the entry stored under hash into t.
func Retrieve(c CAS, hash Hash, t Hashable) error {
	has, data, err := c.getValue(hash)
	if err != nil {
		return err
	}
	if !has {
		return fmt.Errorf("%w: %s", ErrNotFound, hash)
	}
	if err := t.Deserialize(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("deserializing %s: %w", hash, err)
	}
	return nil
}

// RetrieveProgram is Retrieve for programs. An LRUCache answers from its
// decoded entries without touching the encoded bytes.
func RetrieveProgram(c CAS, hash Hash) (*vm.Program, error) {
	if l, ok := c.(*LRUCache); ok {
		return l.Program(hash)
	}
	var p Program
	if err := Retrieve(c, hash, &p); err != nil {
		return nil, err
	}
	return p.Program, nil
}
