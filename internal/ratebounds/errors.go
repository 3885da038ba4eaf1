package ratebounds

import "fmt"

func errInvalidRange(lo, hi float64) error {
	return fmt.Errorf("ratebounds: invalid range (lo=%v, hi=%v): require 0 < lo <= hi", lo, hi)
}
