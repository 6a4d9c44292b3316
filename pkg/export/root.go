package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BTBurke/tgrapher/pkg/series"
	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/groot/rhist"
	"go-hep.org/x/hep/groot/riofs"
	"go-hep.org/x/hep/groot/root"
	"go-hep.org/x/hep/hbook"
	"go.uber.org/zap"
)

// ErrNotCarried is returned when saving into an existing ROOT file would drop
// objects that cannot be copied into the rewritten file
var ErrNotCarried = errors.New("existing output holds objects that cannot be carried over")

// classes that cannot be carried over when an existing ROOT file is updated
var skipClasses = map[string]bool{
	"TTree":          true,
	"TNtuple":        true,
	"TNtupleD":       true,
	"TDirectory":     true,
	"TDirectoryFile": true,
}

// NewGraphErrors converts s to a ROOT TGraphErrors named name
func NewGraphErrors(s *series.Series, name string) rhist.GraphErrors {
	pts := make([]hbook.Point2D, 0, s.Len())
	for _, p := range s.Points() {
		pts = append(pts, hbook.Point2D{
			X:    p.X,
			Y:    p.Y,
			ErrX: hbook.Range{Min: p.XErr, Max: p.XErr},
			ErrY: hbook.Range{Min: p.YErr, Max: p.YErr},
		})
	}
	s2 := hbook.NewS2D(pts...)
	s2.Annotation()["name"] = name
	s2.Annotation()["title"] = s.Title
	return rhist.NewGraphErrorsFrom(s2)
}

type namedObject struct {
	name string
	obj  root.Object
}

// saveROOT writes the graph to path.  When path already exists its objects are
// kept and a same-named object is replaced.  Files holding trees or directories
// are left untouched and ErrNotCarried is returned.
func saveROOT(path string, s *series.Series, opts Options) error {
	name := opts.name(s)
	log := opts.logger()

	var keep []namedObject
	var old *riofs.File
	if _, err := os.Stat(path); err == nil {
		old, err = groot.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open existing output %s: %w", path, err)
		}
		defer old.Close()
		keep, err = carryOver(old, name, log)
		if err != nil {
			return err
		}
	}

	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".tmp")
	f, err := groot.Create(tmp)
	if err != nil {
		return err
	}
	for _, o := range keep {
		if err := f.Put(o.name, o.obj); err != nil {
			f.Close()
			os.Remove(tmp)
			return fmt.Errorf("failed to copy %s: %w", o.name, err)
		}
	}
	if err := f.Put(name, NewGraphErrors(s, name)); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to write graph %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

func carryOver(f *riofs.File, replace string, log *zap.Logger) ([]namedObject, error) {
	keys := f.Keys()
	latest := make(map[string]int)
	for i := range keys {
		k := &keys[i]
		if j, ok := latest[k.Name()]; !ok || k.Cycle() > keys[j].Cycle() {
			latest[k.Name()] = i
		}
	}

	var out []namedObject
	seen := make(map[string]bool)
	for i := range keys {
		k := &keys[i]
		if seen[k.Name()] || latest[k.Name()] != i {
			continue
		}
		seen[k.Name()] = true
		if skipClasses[k.ClassName()] {
			return nil, fmt.Errorf("%w: %s (%s)", ErrNotCarried, k.Name(), k.ClassName())
		}
		if k.Name() == replace {
			log.Debug("replacing object in output", zap.String("name", k.Name()))
			continue
		}
		obj, err := k.Object()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s from existing output: %w", k.Name(), err)
		}
		out = append(out, namedObject{name: k.Name(), obj: obj})
	}
	return out, nil
}
