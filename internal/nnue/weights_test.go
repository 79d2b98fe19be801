package nnue

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func buildZeroBlob(t *testing.T, extra int) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	write := func(n int) {
		for i := 0; i < n; i++ {
			if err := binary.Write(buf, binary.LittleEndian, int8(0)); err != nil {
				t.Fatalf("building fixture: %v", err)
			}
		}
	}
	writeN := func(count, width int) { write(count * width) }

	writeN(InputSize*FTSize, 2) // ft_weights int16
	writeN(FTSize, 2)           // ft_biases int16
	for b := 0; b < OutputBuckets; b++ {
		writeN(FTSize*L1Size, 1) // l1_weights int8
	}
	for b := 0; b < OutputBuckets; b++ {
		writeN(L1Size, 4) // l1_biases float32
	}
	for b := 0; b < OutputBuckets; b++ {
		writeN(L1Size*L2Size, 4) // l2_weights float32
	}
	for b := 0; b < OutputBuckets; b++ {
		writeN(L2Size, 4) // l2_biases float32
	}
	for b := 0; b < OutputBuckets; b++ {
		writeN(L2Size, 4) // l3_weights float32
	}
	writeN(OutputBuckets, 4) // l3_biases float32

	got := buf.Bytes()
	if len(got) != WeightsLen {
		t.Fatalf("fixture length %d != WeightsLen %d", len(got), WeightsLen)
	}
	for i := 0; i < extra; i++ {
		got = append(got, 0)
	}
	return got
}

func TestLoadExactLengthSucceeds(t *testing.T) {
	blob := buildZeroBlob(t, 0)
	w, err := Load(bytes.NewReader(blob))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(w.FTWeights) != InputSize*FTSize {
		t.Errorf("FTWeights len = %d, want %d", len(w.FTWeights), InputSize*FTSize)
	}
	if len(w.L1Weights) != OutputBuckets || len(w.L1Weights[0]) != FTSize*L1Size {
		t.Errorf("L1Weights shape wrong")
	}
	if len(w.L3Biases) != OutputBuckets {
		t.Errorf("L3Biases len = %d, want %d", len(w.L3Biases), OutputBuckets)
	}
}

func TestLoadRejectsTrailingData(t *testing.T) {
	blob := buildZeroBlob(t, 1)
	if _, err := Load(bytes.NewReader(blob)); err == nil {
		t.Fatal("expected error for blob with trailing byte")
	}
}

func TestLoadRejectsTruncatedData(t *testing.T) {
	blob := buildZeroBlob(t, 0)
	truncated := blob[:len(blob)-10]
	if _, err := Load(bytes.NewReader(truncated)); err == nil {
		t.Fatal("expected error for truncated blob")
	}
}
