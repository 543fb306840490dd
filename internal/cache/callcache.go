// Package cache implements a process-wide memoizing call cache: a wrapper
// around pure functions that stores both returned results and raised
// failures, keyed by a canonicalized flattening of the call's arguments.
// Hint analysis (traversal, classification, reduction) is expensive; the
// cache guarantees it is never repeated for the same inputs.
package cache

import (
	"errors"
	"fmt"
	"log"
	"reflect"
	"runtime"
	"strings"
	"sync"

	"github.com/mitchellh/hashstructure/v2"
)

// ErrVariadic is returned by Wrap when the candidate function is variadic.
// Variadic callables are rejected eagerly at wrap time, not at call time.
var ErrVariadic = errors.New("variadic functions are uncacheable")

// Keyer lets an argument supply its own canonical cache key. Arguments that
// do not implement Keyer are keyed by structural hashing; an error from
// either path degrades the call to a direct uncached invocation.
type Keyer interface {
	CacheKey() (string, error)
}

// KV is a single keyword argument. Keyword arguments are ordered: two calls
// passing the same keyword arguments in different order key differently.
// This is documented, intentional behavior, not a defect to fix.
type KV struct {
	Name  string
	Value any
}

// Sentinel markers separating the positional-argument, keyword-name and
// keyword-value segments of a flattened key. The byte is outside the
// identifier alphabet so user keys cannot forge a segment boundary.
const (
	markerKwargNames  = "\x00kw-names"
	markerKwargValues = "\x00kw-values"
)

// Cached wraps a non-variadic function with memoization of both successful
// results and failures. The two underlying maps are append-only and guarded
// by a read-mostly lock; racing writers on the same key benignly recompute,
// last write wins.
type Cached struct {
	fn   reflect.Value
	name string

	mu       sync.RWMutex
	results  map[string]any
	failures map[string]error
}

// Wrap memoizes fn, which must be a non-variadic function returning either
// a single value or a value and an error. Wrapping a variadic function is a
// fatal configuration error.
func Wrap(fn any) (*Cached, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func {
		return nil, fmt.Errorf("cache: %T is not a function", fn)
	}
	t := v.Type()
	if t.IsVariadic() {
		return nil, fmt.Errorf("cache: %s: %w", funcName(v), ErrVariadic)
	}
	if t.NumOut() == 0 || t.NumOut() > 2 {
		return nil, fmt.Errorf("cache: %s must return one value or a value and an error", funcName(v))
	}
	if t.NumOut() == 2 && t.Out(1) != reflect.TypeFor[error]() {
		return nil, fmt.Errorf("cache: %s second return value must be error", funcName(v))
	}
	return &Cached{
		fn:       v,
		name:     funcName(v),
		results:  make(map[string]any),
		failures: make(map[string]error),
	}, nil
}

// Call invokes the wrapped function with positional arguments only,
// memoizing the outcome.
func (c *Cached) Call(args ...any) (any, error) {
	return c.CallKw(args, nil)
}

// CallKw invokes the wrapped function with positional and keyword
// arguments. Keyword values are appended after the positionals in order
// when the function is actually invoked. Keyword calls are accepted but
// advised against: they are materially more expensive to key.
func (c *Cached) CallKw(args []any, kwargs []KV) (any, error) {
	if len(kwargs) > 0 {
		log.Printf("cache: %s called with keyword arguments; positional calls memoize more cheaply", c.name)
	}

	key, ok := c.flattenKey(args, kwargs)
	if !ok {
		// One or more arguments are unhashable. Correctness must never
		// depend on cache availability: call through uncached.
		return c.invoke(args, kwargs)
	}

	c.mu.RLock()
	if err, hit := c.failures[key]; hit {
		c.mu.RUnlock()
		return nil, err
	}
	if value, hit := c.results[key]; hit {
		c.mu.RUnlock()
		return value, nil
	}
	c.mu.RUnlock()

	value, err := c.invoke(args, kwargs)

	c.mu.Lock()
	if err != nil {
		c.failures[key] = err
	} else {
		c.results[key] = value
	}
	c.mu.Unlock()

	return value, err
}

// flattenKey canonicalizes a call's arguments into one flat, orderable key.
// A single positional argument is keyed unwrapped; otherwise positionals,
// keyword names and keyword values are joined in one sentinel-delimited
// sequence. Returns false when any argument cannot be keyed.
func (c *Cached) flattenKey(args []any, kwargs []KV) (string, bool) {
	if len(kwargs) == 0 && len(args) == 1 {
		key, err := keyOf(args[0])
		if err != nil {
			return "", false
		}
		return key, true
	}

	var b strings.Builder
	for _, arg := range args {
		key, err := keyOf(arg)
		if err != nil {
			return "", false
		}
		b.WriteString(key)
		b.WriteByte('\x1f')
	}
	if len(kwargs) > 0 {
		b.WriteString(markerKwargNames)
		for _, kw := range kwargs {
			b.WriteByte('\x1f')
			b.WriteString(kw.Name)
		}
		b.WriteString(markerKwargValues)
		for _, kw := range kwargs {
			key, err := keyOf(kw.Value)
			if err != nil {
				return "", false
			}
			b.WriteByte('\x1f')
			b.WriteString(key)
		}
	}
	return b.String(), true
}

// keyOf derives the canonical key of one argument: its own CacheKey when it
// is a Keyer, a structural hash otherwise.
func keyOf(arg any) (string, error) {
	if k, ok := arg.(Keyer); ok {
		return k.CacheKey()
	}
	h, err := hashstructure.Hash(arg, hashstructure.FormatV2, nil)
	if err != nil {
		return "", fmt.Errorf("cache: argument %T is not hashable: %w", arg, err)
	}
	return fmt.Sprintf("%T#%x", arg, h), nil
}

// invoke calls the wrapped function directly, converting its results into
// the (value, error) shape the cache stores.
func (c *Cached) invoke(args []any, kwargs []KV) (any, error) {
	in := make([]reflect.Value, 0, len(args)+len(kwargs))
	t := c.fn.Type()
	push := func(v any) error {
		i := len(in)
		if i >= t.NumIn() {
			return fmt.Errorf("cache: %s takes %d arguments, got more", c.name, t.NumIn())
		}
		if v == nil {
			in = append(in, reflect.Zero(t.In(i)))
			return nil
		}
		rv := reflect.ValueOf(v)
		if !rv.Type().AssignableTo(t.In(i)) {
			return fmt.Errorf("cache: %s argument %d: %T not assignable to %s", c.name, i, v, t.In(i))
		}
		in = append(in, rv)
		return nil
	}
	for _, arg := range args {
		if err := push(arg); err != nil {
			return nil, err
		}
	}
	for _, kw := range kwargs {
		if err := push(kw.Value); err != nil {
			return nil, err
		}
	}
	if len(in) != t.NumIn() {
		return nil, fmt.Errorf("cache: %s takes %d arguments, got %d", c.name, t.NumIn(), len(in))
	}

	out := c.fn.Call(in)
	if len(out) == 2 {
		if errv := out[1]; !errv.IsNil() {
			return nil, errv.Interface().(error)
		}
	}
	value := out[0].Interface()
	return value, nil
}

// Name returns the wrapped function's name, for diagnostics.
func (c *Cached) Name() string {
	return c.name
}

func funcName(v reflect.Value) string {
	if f := runtime.FuncForPC(v.Pointer()); f != nil {
		name := f.Name()
		if i := strings.LastIndexByte(name, '/'); i >= 0 {
			name = name[i+1:]
		}
		return name
	}
	return "func"
}
