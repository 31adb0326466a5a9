package viewport

import (
	"math/rand"
	"sync"
	"testing"
)

func TestNewController(t *testing.T) {
	c := NewController()
	s := c.Snapshot()

	if s.State != StateEmpty {
		t.Errorf("initial state = %q, want empty", s.State)
	}
	if s.Page != 1 {
		t.Errorf("initial page = %d, want 1", s.Page)
	}
	if s.Zoom != DefaultZoom {
		t.Errorf("initial zoom = %v, want %v", s.Zoom, DefaultZoom)
	}
}

func TestLifecycle(t *testing.T) {
	t.Run("empty to generating to ready", func(t *testing.T) {
		c := NewController()
		gen := c.BeginGenerate()

		if s := c.Snapshot(); s.State != StateGenerating || s.TotalPages != 0 {
			t.Errorf("after BeginGenerate: %+v", s)
		}
		if !c.CompleteLoad(gen, 3) {
			t.Fatal("CompleteLoad with current generation should apply")
		}
		s := c.Snapshot()
		if s.State != StateReady || s.TotalPages != 3 || s.Page != 1 {
			t.Errorf("after CompleteLoad: %+v", s)
		}
	})

	t.Run("language change resets page to 1", func(t *testing.T) {
		c := NewController()
		gen := c.BeginGenerate()
		c.CompleteLoad(gen, 5)
		c.Next()
		c.Next()

		gen = c.BeginGenerate()
		if s := c.Snapshot(); s.Page != 1 || s.TotalPages != 0 {
			t.Errorf("replacement did not reset viewer: %+v", s)
		}
		c.CompleteLoad(gen, 2)
		if s := c.Snapshot(); s.Page != 1 || s.TotalPages != 2 {
			t.Errorf("after reload: %+v", s)
		}
	})

	t.Run("stale load completion is dropped", func(t *testing.T) {
		c := NewController()
		stale := c.BeginGenerate()
		fresh := c.BeginGenerate() // second build starts before first finishes

		if c.CompleteLoad(stale, 99) {
			t.Error("stale CompleteLoad should be ignored")
		}
		if s := c.Snapshot(); s.TotalPages != 0 || s.State != StateGenerating {
			t.Errorf("stale load mutated state: %+v", s)
		}
		if !c.CompleteLoad(fresh, 4) {
			t.Error("fresh CompleteLoad should apply")
		}
	})

	t.Run("failed load returns to empty", func(t *testing.T) {
		c := NewController()
		gen := c.BeginGenerate()
		if !c.FailLoad(gen) {
			t.Fatal("FailLoad with current generation should apply")
		}
		if s := c.Snapshot(); s.State != StateEmpty || s.Page != 1 {
			t.Errorf("after FailLoad: %+v", s)
		}
	})

	t.Run("reset empties the viewer and invalidates in-flight loads", func(t *testing.T) {
		c := NewController()
		c.CompleteLoad(c.BeginGenerate(), 4)
		c.Next()
		c.ZoomIn()

		inflight := c.BeginGenerate()
		s := c.Reset()
		if s.State != StateEmpty || s.Page != 1 || s.TotalPages != 0 || s.Zoom != DefaultZoom {
			t.Errorf("after Reset: %+v", s)
		}
		if c.CompleteLoad(inflight, 9) {
			t.Error("load from before Reset should be dropped")
		}
	})

	t.Run("stale failure is dropped", func(t *testing.T) {
		c := NewController()
		stale := c.BeginGenerate()
		fresh := c.BeginGenerate()
		c.CompleteLoad(fresh, 2)

		if c.FailLoad(stale) {
			t.Error("stale FailLoad should be ignored")
		}
		if s := c.Snapshot(); s.State != StateReady {
			t.Errorf("stale failure mutated state: %+v", s)
		}
	})
}

func TestNavigation(t *testing.T) {
	ready := func(total int) *Controller {
		c := NewController()
		c.CompleteLoad(c.BeginGenerate(), total)
		return c
	}

	t.Run("previous floors at 1", func(t *testing.T) {
		c := ready(3)
		if s := c.Previous(); s.Page != 1 {
			t.Errorf("page = %d, want 1", s.Page)
		}
	})

	t.Run("next caps at total", func(t *testing.T) {
		c := ready(2)
		c.Next()
		if s := c.Next(); s.Page != 2 {
			t.Errorf("page = %d, want 2", s.Page)
		}
	})

	t.Run("next with zero pages stays at 1", func(t *testing.T) {
		c := ready(0)
		if s := c.Next(); s.Page != 1 {
			t.Errorf("page = %d, want 1", s.Page)
		}
	})

	t.Run("goto clamps to range", func(t *testing.T) {
		c := ready(3)
		if s := c.GoTo(2); s.Page != 2 {
			t.Errorf("page = %d, want 2", s.Page)
		}
		if s := c.GoTo(99); s.Page != 3 {
			t.Errorf("page = %d, want 3", s.Page)
		}
		if s := c.GoTo(-4); s.Page != 1 {
			t.Errorf("page = %d, want 1", s.Page)
		}
	})

	t.Run("shrinking total clamps page down", func(t *testing.T) {
		c := ready(5)
		for i := 0; i < 4; i++ {
			c.Next()
		}
		if s := c.SetTotalPages(2); s.Page != 2 {
			t.Errorf("page = %d, want 2", s.Page)
		}
		if s := c.SetTotalPages(0); s.Page != 1 {
			t.Errorf("page = %d, want 1 when total is 0", s.Page)
		}
	})

	t.Run("page stays in range under random sequences", func(t *testing.T) {
		rng := rand.New(rand.NewSource(1))
		for trial := 0; trial < 50; trial++ {
			total := rng.Intn(7) // including 0
			c := ready(total)
			for i := 0; i < 100; i++ {
				switch rng.Intn(3) {
				case 0:
					c.Previous()
				case 1:
					c.Next()
				case 2:
					c.SetTotalPages(rng.Intn(7))
				}
				s := c.Snapshot()
				if s.TotalPages > 0 && (s.Page < 1 || s.Page > s.TotalPages) {
					t.Fatalf("page %d out of [1, %d]", s.Page, s.TotalPages)
				}
				if s.TotalPages == 0 && s.Page != 1 {
					t.Fatalf("page %d with zero total", s.Page)
				}
			}
		}
	})
}

func TestZoom(t *testing.T) {
	t.Run("zoom in caps at max", func(t *testing.T) {
		c := NewController()
		for i := 0; i < 20; i++ {
			c.ZoomIn()
		}
		if s := c.Snapshot(); s.Zoom != MaxZoom {
			t.Errorf("zoom = %v, want %v", s.Zoom, MaxZoom)
		}
	})

	t.Run("zoom out floors at min", func(t *testing.T) {
		c := NewController()
		for i := 0; i < 20; i++ {
			c.ZoomOut()
		}
		if s := c.Snapshot(); s.Zoom != MinZoom {
			t.Errorf("zoom = %v, want %v", s.Zoom, MinZoom)
		}
	})

	t.Run("set clamps arbitrary input", func(t *testing.T) {
		c := NewController()
		if s := c.SetZoom(17); s.Zoom != MaxZoom {
			t.Errorf("zoom = %v, want %v", s.Zoom, MaxZoom)
		}
		if s := c.SetZoom(-1); s.Zoom != MinZoom {
			t.Errorf("zoom = %v, want %v", s.Zoom, MinZoom)
		}
		if s := c.SetZoom(1.5); s.Zoom != 1.5 {
			t.Errorf("zoom = %v, want 1.5", s.Zoom)
		}
	})

	t.Run("reset restores default", func(t *testing.T) {
		c := NewController()
		c.ZoomIn()
		c.ZoomIn()
		if s := c.ResetZoom(); s.Zoom != DefaultZoom {
			t.Errorf("zoom = %v, want %v", s.Zoom, DefaultZoom)
		}
	})

	t.Run("concurrent steps each apply", func(t *testing.T) {
		c := NewController()
		c.SetZoom(MinZoom)

		// MinZoom plus 8 steps of 0.25 lands exactly on MaxZoom; a lost
		// step would leave the zoom short.
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				c.ZoomIn()
			}()
		}
		wg.Wait()

		if z := c.Snapshot().Zoom; z != MaxZoom {
			t.Errorf("zoom = %v after 8 steps from %v, want %v", z, MinZoom, MaxZoom)
		}
	})

	t.Run("zoom stays in range under random sequences", func(t *testing.T) {
		rng := rand.New(rand.NewSource(2))
		c := NewController()
		for i := 0; i < 500; i++ {
			switch rng.Intn(4) {
			case 0:
				c.ZoomIn()
			case 1:
				c.ZoomOut()
			case 2:
				c.ResetZoom()
			case 3:
				c.SetZoom(rng.Float64()*6 - 1)
			}
			if z := c.Snapshot().Zoom; z < MinZoom || z > MaxZoom {
				t.Fatalf("zoom %v out of [%v, %v]", z, MinZoom, MaxZoom)
			}
		}
	})
}
