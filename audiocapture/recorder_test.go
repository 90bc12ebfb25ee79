package audiocapture

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeDevice captures the recorder callbacks so tests can drive ingestion.
type fakeDevice struct {
	mu       sync.Mutex
	onFrames func([]float32)
	onError  func(error)
	startErr error
	started  int
	stopped  int
}

func (d *fakeDevice) Start(onFrames func([]float32), onError func(error)) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.startErr != nil {
		return d.startErr
	}
	d.onFrames = onFrames
	d.onError = onError
	d.started++
	return nil
}

func (d *fakeDevice) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped++
	return nil
}

func (d *fakeDevice) push(samples []float32) {
	d.mu.Lock()
	cb := d.onFrames
	d.mu.Unlock()
	cb(samples)
}

func (d *fakeDevice) fail(err error) {
	d.mu.Lock()
	cb := d.onError
	d.mu.Unlock()
	cb(err)
}

func TestRecorder_SnapshotPreservesOrderAndLength(t *testing.T) {
	dev := &fakeDevice{}
	r := NewRecorder(dev, DefaultConfig())

	if err := r.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	chunks := [][]float32{
		{0.1, 0.2},
		{0.3},
		{0.4, 0.5, 0.6},
	}
	want := []float32{0.1, 0.2, 0.3, 0.4, 0.5, 0.6}

	total := 0
	for _, c := range chunks {
		dev.push(c)
		total += len(c)
	}

	got := r.Snapshot()
	if len(got) != total {
		t.Fatalf("snapshot length = %d, want %d", len(got), total)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("snapshot[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	// Snapshot must not drain.
	if again := r.Snapshot(); len(again) != total {
		t.Errorf("second snapshot length = %d, want %d", len(again), total)
	}
}

func TestRecorder_StateGuards(t *testing.T) {
	dev := &fakeDevice{}
	r := NewRecorder(dev, DefaultConfig())

	if _, err := r.Stop(); !errors.Is(err, ErrNotRecording) {
		t.Errorf("Stop before Start: got %v, want ErrNotRecording", err)
	}

	if err := r.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := r.Start(); !errors.Is(err, ErrAlreadyRecording) {
		t.Errorf("double Start: got %v, want ErrAlreadyRecording", err)
	}

	dev.push([]float32{1, 2, 3})
	samples, err := r.Stop()
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if len(samples) != 3 {
		t.Errorf("final snapshot length = %d, want 3", len(samples))
	}
	if _, err := r.Stop(); !errors.Is(err, ErrNotRecording) {
		t.Errorf("double Stop: got %v, want ErrNotRecording", err)
	}
}

func TestRecorder_StartClearsPreviousFrames(t *testing.T) {
	dev := &fakeDevice{}
	r := NewRecorder(dev, DefaultConfig())

	if err := r.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	dev.push([]float32{1, 2, 3})
	if _, err := r.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	if err := r.Start(); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if got := r.Snapshot(); got != nil {
		t.Errorf("snapshot after restart = %d samples, want none", len(got))
	}
}

func TestRecorder_IngestAfterStopDropped(t *testing.T) {
	dev := &fakeDevice{}
	r := NewRecorder(dev, DefaultConfig())

	if err := r.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	dev.push([]float32{1})
	samples, err := r.Stop()
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}

	// A straggling device callback after Stop must not grow the snapshot.
	dev.push([]float32{2, 3})
	if len(samples) != 1 || len(r.Snapshot()) != 1 {
		t.Errorf("frames ingested after Stop")
	}
}

func TestRecorder_MaxDurationEviction(t *testing.T) {
	dev := &fakeDevice{}
	// 1 second cap at 10 Hz mono = 10 samples.
	r := NewRecorder(dev, Config{SampleRate: 10, Channels: 1, MaxDuration: time.Second})

	if err := r.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	for i := 0; i < 5; i++ {
		dev.push([]float32{float32(i), float32(i), float32(i), float32(i)})
	}

	got := r.Snapshot()
	if len(got) > 12 {
		t.Fatalf("snapshot length = %d, want bounded near 10", len(got))
	}
	// Oldest chunks evicted: the most recent sample must survive.
	if got[len(got)-1] != 4 {
		t.Errorf("last sample = %v, want 4", got[len(got)-1])
	}
}

func TestRecorder_DeviceErrorLatched(t *testing.T) {
	dev := &fakeDevice{}
	r := NewRecorder(dev, DefaultConfig())

	if err := r.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	dev.fail(errors.New("stream underflow"))

	if r.Active() {
		t.Error("recorder still active after device error")
	}
	if _, err := r.Stop(); !errors.Is(err, ErrDevice) {
		t.Errorf("Stop after device error: got %v, want ErrDevice", err)
	}
	// Latch is consumed; next cycle starts clean.
	if err := r.Start(); err != nil {
		t.Errorf("Start after consumed device error: %v", err)
	}
}

func TestRecorder_ConcurrentIngest(t *testing.T) {
	dev := &fakeDevice{}
	r := NewRecorder(dev, DefaultConfig())

	if err := r.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	const writers = 4
	const perWriter = 50
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				dev.push([]float32{1, 2})
			}
		}()
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 20; i++ {
			r.Snapshot()
		}
	}()
	wg.Wait()
	<-done

	samples, err := r.Stop()
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if len(samples) != writers*perWriter*2 {
		t.Errorf("total samples = %d, want %d", len(samples), writers*perWriter*2)
	}
}
