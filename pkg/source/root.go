package source

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/groot/riofs"
	"go-hep.org/x/hep/groot/rtree"
)

type rootTable struct {
	file    *riofs.File
	tree    rtree.Tree
	name    string
	vars    []rtree.ReadVar
	columns []string
}

func openROOT(path, name string) (*rootTable, error) {
	f, err := groot.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load input file: %w", err)
	}
	obj, err := riofs.Dir(f).Get(name)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to load input tree %s: %w", name, err)
	}
	tree, ok := obj.(rtree.Tree)
	if !ok {
		f.Close()
		return nil, fmt.Errorf("object %s is a %s, not a tree", name, obj.Class())
	}

	t := &rootTable{file: f, tree: tree, name: name}
	for _, rv := range rtree.NewReadVars(tree) {
		if !isScalar(rv.Value) {
			continue
		}
		t.vars = append(t.vars, rv)
		t.columns = append(t.columns, columnName(rv))
	}
	return t, nil
}

func columnName(rv rtree.ReadVar) string {
	if rv.Leaf == "" || rv.Leaf == rv.Name {
		return rv.Name
	}
	return rv.Name + "." + rv.Leaf
}

func isScalar(ptr interface{}) bool {
	v := reflect.ValueOf(ptr)
	if v.Kind() != reflect.Ptr {
		return false
	}
	switch v.Elem().Kind() {
	case reflect.Bool,
		reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

func toFloat(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Bool:
		if v.Bool() {
			return 1
		}
		return 0
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	default:
		return v.Float()
	}
}

func (t *rootTable) Name() string {
	return t.name
}

func (t *rootTable) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

func (t *rootTable) Entries(ctx context.Context) (int64, error) {
	return t.tree.Entries(), nil
}

func (t *rootTable) Scan(ctx context.Context, columns []string, fn ScanFunc) error {
	idx, err := indexColumns(t.name, t.columns, columns)
	if err != nil {
		return err
	}
	values := make([]float64, len(columns))

	if len(columns) == 0 {
		for i := int64(0); i < t.tree.Entries(); i++ {
			if err := fn(i, values); err != nil {
				if errors.Is(err, ErrStop) {
					return nil
				}
				return err
			}
		}
		return nil
	}

	// each branch is bound once even when several columns share it
	slot := make(map[int]int)
	var rvars []rtree.ReadVar
	var elems []reflect.Value
	binding := make([]int, len(columns))
	for i, p := range idx {
		s, ok := slot[p]
		if !ok {
			rv := t.vars[p]
			ptr := reflect.New(reflect.TypeOf(rv.Value).Elem())
			rv.Value = ptr.Interface()
			s = len(rvars)
			slot[p] = s
			rvars = append(rvars, rv)
			elems = append(elems, ptr.Elem())
		}
		binding[i] = s
	}

	r, err := rtree.NewReader(t.tree, rvars)
	if err != nil {
		return fmt.Errorf("failed to bind branches: %w", err)
	}
	defer r.Close()

	var stopped bool
	err = r.Read(func(rctx rtree.RCtx) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		for i, s := range binding {
			values[i] = toFloat(elems[s])
		}
		err := fn(rctx.Entry, values)
		if errors.Is(err, ErrStop) {
			stopped = true
		}
		return err
	})
	if stopped {
		return nil
	}
	return err
}

func (t *rootTable) Close() error {
	return t.file.Close()
}
