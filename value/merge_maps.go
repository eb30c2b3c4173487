package value

import "github.com/dynobj/dynobj-go/internal/errors"

// MergeMaps merges multiple map values into a new map.
//
// Later values override earlier ones when keys overlap. When both sides of
// an overlapping key hold maps, they are merged recursively, so layered
// configuration keeps nested defaults. None sources are skipped; any other
// non-map source fails with a type error. The result shares nothing with
// the sources.
func MergeMaps(sources ...Value) (Value, error) {
	out := EmptyMap()
	for _, src := range sources {
		if src.IsNone() {
			continue
		}
		if err := mergeInto(&out, src); err != nil {
			return None(), err
		}
	}
	return out, nil
}

func mergeInto(dst *Value, src Value) error {
	s, ok := src.data.(*dict)
	if !ok {
		return errors.Newf(errors.ErrTypeError, "cannot merge %s into map", src.Kind())
	}
	d := dst.data.(*dict)
	for key, item := range s.entries {
		existing, exists := d.entries[key]
		if exists && existing.Kind() == KindMap && item.Kind() == KindMap {
			if err := mergeInto(existing, *item); err != nil {
				return err
			}
			continue
		}
		c := item.Clone()
		d.entries[key] = &c
	}
	return nil
}
