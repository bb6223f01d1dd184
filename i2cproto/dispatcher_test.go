package i2cproto

import (
	"testing"
	"time"
)

func TestTableLookupUnregisteredSlot(t *testing.T) {
	table := NewTable()

	entry, ok := table.Lookup(0x42)
	if ok {
		t.Fatal("Lookup on an unregistered slot should report ok=false")
	}
	if got := entry.Handler(nil); got != 0 {
		t.Errorf("unimplemented handler returned %#x, want 0", got)
	}
}

func TestTableRegisterThenLookup(t *testing.T) {
	table := NewTable()
	called := false
	table.Register(0x10, 2, 1, 1, []byte{0xAA, 0xBB}, func(params []byte) byte {
		called = true
		return params[0]
	})

	entry, ok := table.Lookup(0x10)
	if !ok {
		t.Fatal("Lookup(0x10) should report ok=true after Register")
	}
	if entry.StaticParamCount != 2 || entry.CustomParamCount != 1 || entry.ReturnCount != 1 {
		t.Errorf("entry = %+v, want StaticParamCount=2 CustomParamCount=1 ReturnCount=1", entry)
	}
	if got := entry.Handler([]byte{0x07}); got != 0x07 {
		t.Errorf("handler returned %#x, want 0x07", got)
	}
	if !called {
		t.Error("registered handler was not invoked")
	}
}

func TestReassemblerEnqueuesOnCustomParamBoundary(t *testing.T) {
	table := NewTable()
	table.Register(0x05, 0, 2, 0, nil, func(params []byte) byte { return 0 })
	r := NewReassembler(table)

	r.OnStart()
	r.OnData(0x05) // command code
	r.OnData(0x11) // custom param 0
	r.OnData(0x22) // custom param 1: Index (2) >= CustomParamCount (2), enqueues

	select {
	case pkt := <-r.out:
		if pkt.Buf[0] != 0x05 || pkt.Buf[1] != 0x11 || pkt.Buf[2] != 0x22 {
			t.Errorf("reassembled packet = %v, want [0x05 0x11 0x22 ...]", pkt.Buf[:3])
		}
	case <-time.After(time.Second):
		t.Fatal("reassembler did not enqueue a completed packet")
	}
}

func TestReassemblerOnStartResetsBuffer(t *testing.T) {
	table := NewTable()
	table.Register(0x01, 0, 0, 0, nil, func(params []byte) byte { return 0 })
	r := NewReassembler(table)

	r.OnStart()
	r.OnData(0x01) // zero custom params: enqueues immediately

	select {
	case <-r.out:
	case <-time.After(time.Second):
		t.Fatal("expected first packet to enqueue")
	}

	r.OnStart()
	if r.current.Index != 0 {
		t.Errorf("OnStart left Index=%d, want 0", r.current.Index)
	}
}

func TestDispatcherDropsUnregisteredCode(t *testing.T) {
	table := NewTable()
	reasm := NewReassembler(table)
	d := NewDispatcher(table, reasm, nil)

	// dispatch should not panic when the code has no registered handler;
	// Lookup reports the slot unregistered, so no handler is invoked.
	d.dispatch(Packet{Buf: [bufferSize]byte{0x99}})
}

func TestDispatcherBuildsStaticThenCustomParams(t *testing.T) {
	table := NewTable()
	var gotParams []byte
	table.Register(0x20, 2, 2, 0, []byte{0xDE, 0xAD}, func(params []byte) byte {
		gotParams = append([]byte(nil), params...)
		return 0
	})
	reasm := NewReassembler(table)
	d := NewDispatcher(table, reasm, nil)

	pkt := Packet{Buf: [bufferSize]byte{0x20, 0x01, 0x02}}
	d.dispatch(pkt)

	want := []byte{0xDE, 0xAD, 0x01, 0x02}
	if len(gotParams) != len(want) {
		t.Fatalf("params = %v, want %v", gotParams, want)
	}
	for i := range want {
		if gotParams[i] != want[i] {
			t.Errorf("params[%d] = %#x, want %#x", i, gotParams[i], want[i])
		}
	}
}
