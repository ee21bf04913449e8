// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package gpb

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gviegas/gpb/internal/stream"
)

type record struct {
	id   string
	typ  Type
	body func(w *stream.Writer)
}

// writeBundle lays out records back to back.
// Offsets of nested records are given relative to their
// enclosing record.
func writeBundle(records []record, nested map[string][2]int) []byte {
	var body stream.Writer
	offs := make(map[string]int)
	for _, r := range records {
		offs[r.id] = body.Len()
		r.body(&body)
	}
	type ref struct {
		id  string
		typ Type
		off int
	}
	var refs []ref
	for _, r := range records {
		refs = append(refs, ref{r.id, r.typ, offs[r.id]})
	}
	for id, x := range nested {
		refs = append(refs, ref{id, TypeNode, offs[records[x[0]].id] + x[1]})
	}
	hdr := len(Magic) + 2 + 4
	for _, r := range refs {
		hdr += 4 + len(r.id) + 8
	}
	var w stream.Writer
	w.WriteBytes(Magic[:])
	w.WriteUint8(1)
	w.WriteUint8(2)
	w.WriteUint32(uint32(len(refs)))
	for _, r := range refs {
		w.WriteString(r.id)
		w.WriteUint32(uint32(r.typ))
		w.WriteUint32(uint32(hdr + r.off))
	}
	w.WriteBytes(body.Bytes())
	return w.Bytes()
}

func writeNodeHeader(w *stream.Writer, typ uint32, children uint32) {
	w.WriteUint32(typ)
	w.WriteFloats([]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1})
	w.WriteString("")
	w.WriteUint32(children)
}

func writeNodeTail(w *stream.Writer) {
	w.WriteUint8(0)
	w.WriteUint8(0)
	w.WriteString("")
}

func TestReadNodeRollback(t *testing.T) {
	const nodeSize = 4 + 64 + 4 + 4
	data := writeBundle([]record{{
		id:  "A",
		typ: TypeNode,
		body: func(w *stream.Writer) {
			writeNodeHeader(w, 1, 2)
			writeNodeHeader(w, 2, 0)
			writeNodeTail(w)
			w.WriteUint32(99)
		},
	}}, map[string][2]int{
		"B": {0, nodeSize},
		"C": {0, nodeSize + nodeSize + 6},
	})
	b, err := NewCache(fstest.MapFS{"x.gpb": {Data: data}}).Open("x.gpb")
	require.NoError(t, err)
	defer b.Close()

	s := b.newSession(true)
	s.tracked["Z"] = nil
	s.order = append(s.order, "Z")
	_, err = s.b.seekTo("A", TypeNode)
	require.NoError(t, err)
	n, err := s.readNode(true)
	assert.ErrorIs(t, err, ErrFormat)
	assert.Nil(t, n)
	assert.Len(t, s.tracked, 1)
	assert.Contains(t, s.tracked, "Z")
	assert.Equal(t, []string{"Z"}, s.order)

	// Loading B alone succeeds.
	j, err := s.loadNode("B")
	require.NoError(t, err)
	assert.NotNil(t, j.Joint())
	assert.Nil(t, j.Parent())
}
