// SPDX-License-Identifier: EPL-2.0

package ctrl

import (
	"sync"
	"testing"
)

func newTestInputs() *Inputs {
	return NewInputs(DefaultMultiTouchInfo())
}

func cell(in *Inputs, channel, slot int) int32 {
	return in.Buffer()[Index(channel, slot, in.Info().TouchSlots)]
}

func TestBufferLen(t *testing.T) {
	t.Parallel()

	if got := BufferLen(MaxSlots); got != 114 {
		t.Errorf("BufferLen(%d) = %d, want 114", MaxSlots, got)
	}
	if got := BufferLen(1); got != ChnBtnCount+1+ChnMtCount-1 {
		t.Errorf("BufferLen(1) = %d, want %d", got, ChnBtnCount+ChnMtCount)
	}
}

func TestIndex_Layout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		channel int
		slot    int
		slots   int
		want    int
	}{
		{name: "any touch", channel: ChnMtAnyTouch, slot: 7, slots: 10, want: 3},
		{name: "x slot 0", channel: ChnMtX, slot: 0, slots: 10, want: 4},
		{name: "x slot 9", channel: ChnMtX, slot: 9, slots: 10, want: 13},
		{name: "y slot 0", channel: ChnMtY, slot: 0, slots: 10, want: 14},
		{name: "pressure slot 2", channel: ChnMtPressure, slot: 2, slots: 10, want: 4 + 9*10 + 2},
		{name: "id last slot", channel: ChnMtID, slot: 9, slots: 10, want: 113},
		{name: "id with 4 slots", channel: ChnMtID, slot: 3, slots: 4, want: 4 + 10*4 + 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Index(tt.channel, tt.slot, tt.slots); got != tt.want {
				t.Errorf("Index(%d, %d, %d) = %d, want %d", tt.channel, tt.slot, tt.slots, got, tt.want)
			}
		})
	}
}

func TestInputs_InitialState(t *testing.T) {
	t.Parallel()

	in := newTestInputs()
	in.UpdateBuffer()

	for slot := range MaxSlots {
		if got := cell(in, ChnMtID, slot); got != InactiveID {
			t.Errorf("slot %d id = %d, want %d", slot, got, InactiveID)
		}
	}
	if got := cell(in, ChnMtAnyTouch, 0); got != 0 {
		t.Errorf("anyTouch = %d, want 0", got)
	}
	for b := range ChnBtnCount {
		if got := in.Buffer()[ButtonIndex(b)]; got != 0 {
			t.Errorf("button %d = %d, want 0", b, got)
		}
	}
}

func TestInputs_UpdateTouchFields(t *testing.T) {
	t.Parallel()

	in := newTestInputs()
	in.UpdateTouch(4, Touch{
		ID:          12,
		X:           640.7,
		Y:           480.2,
		Pressure:    0.5,
		MajAxis:     30,
		MinAxis:     20,
		Orientation: -1.4,
		MajWidth:    9,
		MinWidth:    8,
	})
	in.UpdateHover(4, 100.9, 200.1)
	in.UpdateBuffer()

	want := map[int]int32{
		ChnMtID:          12,
		ChnMtX:           640,
		ChnMtY:           480,
		ChnMtPressure:    500,
		ChnMtMajAxis:     30,
		ChnMtMinAxis:     20,
		ChnMtOrientation: -1,
		ChnMtMajWidth:    9,
		ChnMtMinWidth:    8,
		ChnMtHoverX:      100,
		ChnMtHoverY:      200,
	}
	for ch, w := range want {
		if got := cell(in, ch, 4); got != w {
			t.Errorf("channel %d = %d, want %d", ch, got, w)
		}
	}

	// neighbouring slots must be untouched
	if got := cell(in, ChnMtID, 3); got != InactiveID {
		t.Errorf("slot 3 id = %d, want %d", got, InactiveID)
	}
	if got := cell(in, ChnMtX, 5); got != 0 {
		t.Errorf("slot 5 x = %d, want 0", got)
	}
}

func TestInputs_ClearTouchKeepsStaleFields(t *testing.T) {
	t.Parallel()

	in := newTestInputs()
	in.UpdateTouch(1, Touch{ID: 3, X: 50, Y: 60, Pressure: 1})
	in.ClearTouch(1)
	in.UpdateBuffer()

	if got := cell(in, ChnMtID, 1); got != InactiveID {
		t.Errorf("id after clear = %d, want %d", got, InactiveID)
	}
	if got := cell(in, ChnMtX, 1); got != 50 {
		t.Errorf("x after clear = %d, want stale 50", got)
	}
}

func TestInputs_ClearTouchRegardlessOfPriorValues(t *testing.T) {
	t.Parallel()

	for _, id := range []int{0, 1, 42, 1 << 20} {
		in := newTestInputs()
		in.UpdateTouch(0, Touch{ID: id, X: float32(id)})
		in.UpdateBuffer()
		in.ClearTouch(0)
		in.UpdateBuffer()
		if got := cell(in, ChnMtID, 0); got != InactiveID {
			t.Errorf("prior id %d: id after clear = %d, want %d", id, got, InactiveID)
		}
	}
}

func TestInputs_LastUpdateWins(t *testing.T) {
	t.Parallel()

	in := newTestInputs()
	in.UpdateTouch(2, Touch{ID: 5, X: 10, Y: 11, Pressure: 0.1})
	in.ClearTouch(2)
	in.UpdateTouch(2, Touch{ID: 7, X: 300, Y: 400, Pressure: 0.75, MajAxis: 5})
	in.UpdateBuffer()

	if got := cell(in, ChnMtID, 2); got != 7 {
		t.Errorf("id = %d, want 7", got)
	}
	if got := cell(in, ChnMtX, 2); got != 300 {
		t.Errorf("x = %d, want 300", got)
	}
	if got := cell(in, ChnMtY, 2); got != 400 {
		t.Errorf("y = %d, want 400", got)
	}
	if got := cell(in, ChnMtPressure, 2); got != 750 {
		t.Errorf("pressure = %d, want 750", got)
	}
	if got := cell(in, ChnMtMajAxis, 2); got != 5 {
		t.Errorf("majAxis = %d, want 5", got)
	}
}

func TestInputs_OutOfRangeSlotsIgnored(t *testing.T) {
	t.Parallel()

	in := newTestInputs()
	for _, slot := range []int{-1, MaxSlots, MaxSlots + 5} {
		in.UpdateTouch(slot, Touch{ID: 9, X: 1})
		in.UpdateHover(slot, 1, 1)
		in.ClearTouch(slot)
	}
	in.UpdateBuffer()

	for slot := range MaxSlots {
		if got := cell(in, ChnMtID, slot); got != InactiveID {
			t.Errorf("slot %d id = %d, want %d", slot, got, InactiveID)
		}
	}
}

func TestInputs_ButtonsAndAnyTouch(t *testing.T) {
	t.Parallel()

	in := newTestInputs()
	in.SetButton(ChnBtnVolUp, true)
	in.SetButton(ChnBtnCount, true) // ignored
	in.UpdateAnyTouch(1)
	in.UpdateBuffer()

	buf := in.Buffer()
	if buf[ChnBtnVolUp] != 1 {
		t.Errorf("volUp = %d, want 1", buf[ChnBtnVolUp])
	}
	if buf[ChnBtnPower] != 0 || buf[ChnBtnVolDown] != 0 {
		t.Errorf("unexpected buttons %v", buf[:ChnBtnCount])
	}
	if got := cell(in, ChnMtAnyTouch, 0); got != 1 {
		t.Errorf("anyTouch = %d, want 1", got)
	}

	in.SetButton(ChnBtnVolUp, false)
	in.UpdateBuffer()
	if buf[ChnBtnVolUp] != 0 {
		t.Errorf("volUp after release = %d, want 0", buf[ChnBtnVolUp])
	}
}

func TestInputs_ScreenResolutionPublishedOnUpdate(t *testing.T) {
	t.Parallel()

	in := newTestInputs()
	in.SetScreenResolution(1080, 2400)

	if got := in.Info().ScreenResolution; got != [2]float32{1920, 1080} {
		t.Errorf("before UpdateBuffer = %v, want default", got)
	}
	in.UpdateBuffer()
	if got := in.Info().ScreenResolution; got != [2]float32{1080, 2400} {
		t.Errorf("after UpdateBuffer = %v, want [1080 2400]", got)
	}
}

func TestNewInputs_ClampsSlots(t *testing.T) {
	t.Parallel()

	info := DefaultMultiTouchInfo()
	info.TouchSlots = 64
	in := NewInputs(info)
	if in.Info().TouchSlots != MaxSlots {
		t.Errorf("TouchSlots = %d, want %d", in.Info().TouchSlots, MaxSlots)
	}

	info.TouchSlots = 2
	in = NewInputs(info)
	if len(in.Buffer()) != BufferLen(2) {
		t.Errorf("len(Buffer()) = %d, want %d", len(in.Buffer()), BufferLen(2))
	}
}

func TestInputs_ConcurrentWritersAndReader(t *testing.T) {
	t.Parallel()

	in := newTestInputs()
	var wg sync.WaitGroup
	stop := make(chan struct{})

	for w := range 3 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; ; i++ {
				select {
				case <-stop:
					return
				default:
				}
				slot := (i + w) % MaxSlots
				in.UpdateTouch(slot, Touch{ID: i, X: float32(i)})
				in.UpdateHover(slot, 1, 2)
				in.SetScreenResolution(float32(i), float32(i))
				if i%3 == 0 {
					in.ClearTouch(slot)
				}
			}
		}()
	}

	for range 2000 {
		in.UpdateBuffer()
	}
	close(stop)
	wg.Wait()
}

func TestInputs_UpdateBufferZeroAllocs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping allocation test in short mode")
	}

	in := newTestInputs()
	in.UpdateTouch(0, Touch{ID: 1, X: 2})
	allocs := testing.AllocsPerRun(1000, func() {
		in.UpdateBuffer()
	})
	if allocs > 0 {
		t.Errorf("UpdateBuffer allocated %v times, want 0", allocs)
	}
}

func BenchmarkInputs_UpdateBuffer(b *testing.B) {
	in := newTestInputs()
	for slot := range MaxSlots {
		in.UpdateTouch(slot, Touch{ID: slot, X: float32(slot)})
	}

	b.ResetTimer()
	b.ReportAllocs()

	for range b.N {
		in.UpdateBuffer()
	}
}
