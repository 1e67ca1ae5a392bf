package cowfs

import "bytes"

// findDelta computes the byte window of newData that differs from oldData.
// A zero deltaSize means the write is a no-op: either the buffers are
// identical, or newData is a pure prefix of oldData (a truncation of equal
// size is covered by the identity check).
func findDelta(oldData, newData []byte) (deltaStart, deltaSize int64) {
	oldSize := int64(len(oldData))
	newSize := int64(len(newData))

	if oldSize == newSize && bytes.Equal(oldData, newData) {
		return 0, 0
	}

	limit := min(oldSize, newSize)
	for deltaStart < limit && oldData[deltaStart] == newData[deltaStart] {
		deltaStart++
	}

	// New content is a prefix of the old: nothing inside the new buffer
	// changed.
	if deltaStart == newSize && newSize < oldSize {
		return deltaStart, 0
	}

	// Pure append: the old content is a prefix of the new.
	if deltaStart == oldSize && newSize > oldSize {
		return deltaStart, newSize - deltaStart
	}

	var commonSuffix int64
	for commonSuffix < oldSize-deltaStart &&
		commonSuffix < newSize-deltaStart &&
		oldData[oldSize-1-commonSuffix] == newData[newSize-1-commonSuffix] {
		commonSuffix++
	}

	deltaSize = (newSize - deltaStart) - commonSuffix
	if deltaStart+deltaSize > newSize {
		deltaSize = newSize - deltaStart
	}
	return deltaStart, deltaSize
}
