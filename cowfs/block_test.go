package cowfs

import (
	"errors"
	"testing"
)

func TestAllocateBlockInitializesState(t *testing.T) {
	fs := newTestFS(t)
	index, err := fs.allocateBlock()
	if err != nil {
		t.Fatalf("allocateBlock failed: %v", err)
	}
	b := fs.blocks[index]
	if !b.InUse || b.Next != noBlock || b.RefCount != 0 {
		t.Errorf("allocated block state = %+v, want in-use, unlinked, ref 0", b)
	}
}

func TestAllocateBlockExhaustion(t *testing.T) {
	fs := newTestFS(t)
	for i := 0; i < fs.TotalBlocks(); i++ {
		if _, err := fs.allocateBlock(); err != nil {
			t.Fatalf("allocation %d failed early: %v", i, err)
		}
	}
	if _, err := fs.allocateBlock(); !errors.Is(err, ErrOutOfSpace) {
		t.Errorf("allocation past capacity returned %v, want ErrOutOfSpace", err)
	}
}

// buildChain links freshly allocated blocks in order and returns the head.
func buildChain(t *testing.T, fs *FileSystem, n int) uint32 {
	t.Helper()
	head := noBlock
	prev := noBlock
	for i := 0; i < n; i++ {
		index, err := fs.allocateBlock()
		if err != nil {
			t.Fatalf("allocateBlock failed: %v", err)
		}
		if head == noBlock {
			head = index
		} else {
			fs.blocks[prev].Next = index
		}
		prev = index
	}
	return head
}

func TestIncrementWalksWholeChain(t *testing.T) {
	fs := newTestFS(t)
	head := buildChain(t, fs, 3)
	fs.incrementBlockRefs(head)

	count, err := fs.chainLength(head)
	if err != nil || count != 3 {
		t.Fatalf("chainLength = (%d, %v), want (3, nil)", count, err)
	}
	err = fs.walkChain(head, func(index uint32) error {
		if fs.blocks[index].RefCount != 1 {
			t.Errorf("block %d ref_count = %d, want 1", index, fs.blocks[index].RefCount)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walkChain failed: %v", err)
	}
}

func TestDecrementReclaimsEagerly(t *testing.T) {
	fs := newTestFS(t)
	head := buildChain(t, fs, 3)
	fs.incrementBlockRefs(head)
	free := fs.freeBlockCount()

	fs.decrementBlockRefs(head)

	if got := fs.freeBlockCount(); got != free+3 {
		t.Errorf("free blocks after decrement = %d, want %d", got, free+3)
	}
	if fs.blocks[head].InUse {
		t.Error("head block still marked in use after reclamation")
	}
}

func TestDecrementStopsAtSharedTail(t *testing.T) {
	fs := newTestFS(t)

	// Two chains converging on a shared two-block tail.
	tail := buildChain(t, fs, 2)
	headA, err := fs.allocateBlock()
	if err != nil {
		t.Fatalf("allocateBlock failed: %v", err)
	}
	fs.blocks[headA].Next = tail
	headB, err := fs.allocateBlock()
	if err != nil {
		t.Fatalf("allocateBlock failed: %v", err)
	}
	fs.blocks[headB].Next = tail

	fs.incrementBlockRefs(headA)
	fs.incrementBlockRefs(headB)

	tailNext := fs.blocks[tail].Next
	if fs.blocks[tail].RefCount != 2 || fs.blocks[tailNext].RefCount != 2 {
		t.Fatalf("shared tail refs = (%d, %d), want (2, 2)",
			fs.blocks[tail].RefCount, fs.blocks[tailNext].RefCount)
	}

	fs.decrementBlockRefs(headA)

	if fs.blocks[headA].InUse {
		t.Error("exclusive head of released chain should be reclaimed")
	}
	if fs.blocks[tail].RefCount != 1 {
		t.Errorf("shared tail ref_count = %d, want 1", fs.blocks[tail].RefCount)
	}
	// The walk must stop at the first still-shared block: the block
	// behind it keeps its count untouched.
	if fs.blocks[tailNext].RefCount != 2 {
		t.Errorf("block past shared boundary ref_count = %d, want 2", fs.blocks[tailNext].RefCount)
	}
}
