// SPDX-License-Identifier: Apache-2.0

package main

/*
#cgo CFLAGS: -I.
#include <stdlib.h>

typedef struct {
	long long bin_count;
	int kind;
	int has_missing;
} FeatureDesc;
*/
import "C"

import (
	"errors"
	"io"
	"log"
	"sync"
	"unsafe"

	"github.com/interpretml/ebm_interaction/ebm"
)

//The bridge exports the engine's C ABI: context construction for
//classification and regression, pair scoring, destruction, and a last-error
//channel for hosts that cannot consume Go errors. Handles are opaque
//non-zero integers; 0 is the construction failure value.

var (
	handleMu    sync.Mutex
	nextHandle  uint64 = 1
	contexts           = make(map[uint64]*ebm.InteractionContext)
	lastErrorMu sync.Mutex
	lastError   string

	logSilenceOnce sync.Once
)

const (
	statusOK                   = 0
	statusInvalidArgument      = 1
	statusAllocationImpossible = 2
	statusOutOfMemory          = 3
)

func setLastError(err error) {
	lastErrorMu.Lock()
	defer lastErrorMu.Unlock()
	if err != nil {
		lastError = err.Error()
	} else {
		lastError = ""
	}
}

func getLastError() string {
	lastErrorMu.Lock()
	defer lastErrorMu.Unlock()
	return lastError
}

func statusFromError(err error) C.int {
	switch {
	case err == nil:
		return statusOK
	case errors.Is(err, ebm.ErrAllocationImpossible):
		return statusAllocationImpossible
	case errors.Is(err, ebm.ErrOutOfMemory):
		return statusOutOfMemory
	default:
		return statusInvalidArgument
	}
}

func storeContext(ctx *ebm.InteractionContext) uint64 {
	handleMu.Lock()
	defer handleMu.Unlock()
	handle := nextHandle
	contexts[handle] = ctx
	nextHandle++
	return handle
}

func fetchContext(handle uint64) (*ebm.InteractionContext, error) {
	handleMu.Lock()
	defer handleMu.Unlock()
	ctx, ok := contexts[handle]
	if !ok {
		return nil, errors.New("invalid interaction handle")
	}
	return ctx, nil
}

func silenceLogs() {
	logSilenceOnce.Do(func() {
		log.SetOutput(io.Discard)
	})
}

func copyFeatures(ptr *C.FeatureDesc, count int) ([]ebm.FeatureAtom, error) {
	if count < 0 {
		return nil, errors.New("negative feature count")
	}
	if count == 0 {
		return nil, nil
	}
	if ptr == nil {
		return nil, errors.New("null features for non-zero feature count")
	}
	descs := unsafe.Slice(ptr, count)
	features := make([]ebm.FeatureAtom, count)
	for i, d := range descs {
		features[i] = ebm.FeatureAtom{
			BinCount:   int(d.bin_count),
			Kind:       ebm.FeatureKind(d.kind),
			HasMissing: d.has_missing != 0,
		}
	}
	return features, nil
}

func copyIntSlice(ptr *C.longlong, length int) ([]int, error) {
	if length < 0 {
		return nil, errors.New("negative length")
	}
	if length == 0 {
		return nil, nil
	}
	if ptr == nil {
		return nil, errors.New("null pointer for non-empty slice")
	}
	src := unsafe.Slice((*int64)(unsafe.Pointer(ptr)), length)
	dst := make([]int, length)
	for i, v := range src {
		dst[i] = int(v)
	}
	return dst, nil
}

func copyFloatSlice(ptr *C.double, length int) ([]float64, error) {
	if length < 0 {
		return nil, errors.New("negative length")
	}
	if length == 0 {
		return nil, nil
	}
	if ptr == nil {
		return nil, errors.New("null pointer for non-empty slice")
	}
	src := unsafe.Slice((*float64)(unsafe.Pointer(ptr)), length)
	dst := make([]float64, length)
	copy(dst, src)
	return dst, nil
}

func vectorLength(classCount int) int {
	if classCount <= 2 {
		return 1
	}
	return classCount
}

//export CreateInteractionClassification
func CreateInteractionClassification(
	countTargetClasses C.longlong,
	countFeatures C.longlong,
	features *C.FeatureDesc,
	countSamples C.longlong,
	binnedData *C.longlong,
	targets *C.longlong,
	predictorScores *C.double,
) C.ulonglong {
	silenceLogs()
	setLastError(nil)

	if countTargetClasses < 0 {
		setLastError(errors.New("count of target classes cannot be negative"))
		return 0
	}
	atoms, err := copyFeatures(features, int(countFeatures))
	if err != nil {
		setLastError(err)
		return 0
	}
	samples := int(countSamples)
	binned, err := copyIntSlice(binnedData, samples*len(atoms))
	if err != nil {
		setLastError(err)
		return 0
	}
	targetSlice, err := copyIntSlice(targets, samples)
	if err != nil {
		setLastError(err)
		return 0
	}
	scores, err := copyFloatSlice(predictorScores, samples*vectorLength(int(countTargetClasses)))
	if err != nil {
		setLastError(err)
		return 0
	}

	ds, err := ebm.NewClassificationDataset(int(countTargetClasses), atoms, binned, targetSlice, scores)
	if err != nil {
		setLastError(err)
		return 0
	}
	return C.ulonglong(storeContext(ds.NewContext()))
}

//export CreateInteractionRegression
func CreateInteractionRegression(
	countFeatures C.longlong,
	features *C.FeatureDesc,
	countSamples C.longlong,
	binnedData *C.longlong,
	targets *C.double,
	predictorScores *C.double,
) C.ulonglong {
	silenceLogs()
	setLastError(nil)

	atoms, err := copyFeatures(features, int(countFeatures))
	if err != nil {
		setLastError(err)
		return 0
	}
	samples := int(countSamples)
	binned, err := copyIntSlice(binnedData, samples*len(atoms))
	if err != nil {
		setLastError(err)
		return 0
	}
	targetSlice, err := copyFloatSlice(targets, samples)
	if err != nil {
		setLastError(err)
		return 0
	}
	scores, err := copyFloatSlice(predictorScores, samples)
	if err != nil {
		setLastError(err)
		return 0
	}

	ds, err := ebm.NewRegressionDataset(atoms, binned, targetSlice, scores)
	if err != nil {
		setLastError(err)
		return 0
	}
	return C.ulonglong(storeContext(ds.NewContext()))
}

//export CreateInteractionContext
//
//CreateInteractionContext is the class-count-switched constructor: targets
//points at int64 class indices when countTargetClasses >= 0 and at float64
//values when it is -1 (regression).
func CreateInteractionContext(
	countTargetClasses C.longlong,
	countFeatures C.longlong,
	features *C.FeatureDesc,
	countSamples C.longlong,
	binnedData *C.longlong,
	targets unsafe.Pointer,
	predictorScores *C.double,
) C.ulonglong {
	if countTargetClasses == C.longlong(ebm.ClassCountRegression) {
		return CreateInteractionRegression(
			countFeatures, features, countSamples, binnedData,
			(*C.double)(targets), predictorScores,
		)
	}
	return CreateInteractionClassification(
		countTargetClasses, countFeatures, features, countSamples, binnedData,
		(*C.longlong)(targets), predictorScores,
	)
}

//export CalculateInteractionScore
func CalculateInteractionScore(
	handle C.ulonglong,
	featureIndexes *C.longlong,
	countFeaturesInGroup C.ulonglong,
	countSamplesRequiredForChildSplitMin C.longlong,
	interactionScoreOut *C.double,
) C.int {
	setLastError(nil)

	ctx, err := fetchContext(uint64(handle))
	if err != nil {
		setLastError(err)
		return statusInvalidArgument
	}
	group, err := copyIntSlice(featureIndexes, int(countFeaturesInGroup))
	if err != nil {
		setLastError(err)
		return statusInvalidArgument
	}

	score, err := ctx.CalculateInteractionScore(group, int(countSamplesRequiredForChildSplitMin))
	if err != nil {
		setLastError(err)
		if interactionScoreOut != nil {
			*interactionScoreOut = 0
		}
		return statusFromError(err)
	}
	if interactionScoreOut != nil {
		*interactionScoreOut = C.double(score)
	}
	return statusOK
}

//export FreeInteraction
func FreeInteraction(handle C.ulonglong) {
	handleMu.Lock()
	defer handleMu.Unlock()
	delete(contexts, uint64(handle))
}

//export GetLastError
func GetLastError() *C.char {
	errStr := getLastError()
	if errStr == "" {
		return nil
	}
	return C.CString(errStr)
}

//export FreeCString
func FreeCString(str *C.char) {
	if str != nil {
		C.free(unsafe.Pointer(str))
	}
}

func main() {}
