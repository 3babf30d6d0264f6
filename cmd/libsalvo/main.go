// Command libsalvo builds the query boundary as a C shared library:
//
//	go build -buildmode=c-shared -o libsalvo.so ./cmd/libsalvo
//
// The exported function is
//
//	uint64_t salvo_filter_and_count(const char *path,
//	    uint64_t hit_lo, uint64_t hit_hi, uint64_t miss_lo, uint64_t miss_hi,
//	    uint32_t *out, size_t out_len, int32_t *status);
//
// It returns the match count and writes the heatmap into out[0:81]. On
// failure it returns 0 and *status is non-zero: 1 source unavailable,
// 2 stream corrupt, 3 invalid argument, 4 invalid manifest, 6 internal
// error.
package main

/*
#include <stddef.h>
#include <stdint.h>
*/
import "C"

import (
	"unsafe"

	"github.com/hupe1980/salvo"
	"github.com/hupe1980/salvo/internal/conv"
)

//export salvo_filter_and_count
func salvo_filter_and_count(path *C.char, hitLo, hitHi, missLo, missHi C.uint64_t, out *C.uint32_t, outLen C.size_t, status *C.int32_t) C.uint64_t {
	n, err := conv.Uint64ToInt(uint64(outLen))
	if err != nil {
		if status != nil {
			*status = C.int32_t(salvo.StatusInvalidArgument)
		}
		return 0
	}
	var buf []uint32
	if out != nil {
		buf = unsafe.Slice((*uint32)(unsafe.Pointer(out)), n)
	}
	var p string
	if path != nil {
		p = C.GoString(path)
	}

	count, st := filterAndCount(p, uint64(hitLo), uint64(hitHi), uint64(missLo), uint64(missHi), buf)
	if status != nil {
		*status = C.int32_t(st)
	}
	return C.uint64_t(count)
}

func filterAndCount(path string, hitLo, hitHi, missLo, missHi uint64, out []uint32) (uint64, salvo.Status) {
	if path == "" {
		return 0, salvo.StatusInvalidArgument
	}
	return salvo.FilterAndCountPath(path, hitLo, hitHi, missLo, missHi, out)
}

func main() {}
