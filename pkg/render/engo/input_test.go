package engo

import "testing"

type fakeController struct {
	pauses, resumes, steps int
}

func (f *fakeController) Pause()     { f.pauses++ }
func (f *fakeController) Resume()    { f.resumes++ }
func (f *fakeController) StepFrame() { f.steps++ }

func TestInputSystem_Apply(t *testing.T) {
	tests := []struct {
		name     string
		frames   []Controls
		pauses   int
		resumes  int
		steps    int
		zoom     float32
		cycled   int
		isPaused bool
	}{
		{"idle", []Controls{{}}, 0, 0, 0, 1, 0, false},
		{"pause_toggle", []Controls{{TogglePause: true}, {TogglePause: true}}, 1, 1, 0, 1, 0, false},
		{"step_only_when_paused", []Controls{{Step: true}, {TogglePause: true}, {Step: true}}, 1, 0, 1, 1, 0, true},
		{"scroll_zoom", []Controls{{ScrollY: 10}}, 0, 0, 0, 2, 0, false},
		{"reset_zoom", []Controls{{ScrollY: 10}, {ResetZoom: true}}, 0, 0, 0, 1, 0, false},
		{"cycle_follow", []Controls{{CycleFollow: true}}, 0, 0, 0, 1, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := &fakeController{}
			camera := NewCameraSystem()
			is := NewInputSystem(ctrl, camera)
			cycled := 0
			is.OnCycleFollow = func() { cycled++ }

			for _, c := range tt.frames {
				is.Apply(c)
			}

			if ctrl.pauses != tt.pauses || ctrl.resumes != tt.resumes || ctrl.steps != tt.steps {
				t.Errorf("controller = %+v, expected %d pauses, %d resumes, %d steps", *ctrl, tt.pauses, tt.resumes, tt.steps)
			}
			if camera.GetZoom() != tt.zoom {
				t.Errorf("GetZoom() = %v, expected %v", camera.GetZoom(), tt.zoom)
			}
			if cycled != tt.cycled {
				t.Errorf("OnCycleFollow called %d times, expected %d", cycled, tt.cycled)
			}
			if is.Paused() != tt.isPaused {
				t.Errorf("Paused() = %v, expected %v", is.Paused(), tt.isPaused)
			}
		})
	}
}

func TestInputSystem_NoCamera(t *testing.T) {
	is := NewInputSystem(&fakeController{}, nil)
	is.Apply(Controls{ZoomIn: true, CycleFollow: true})
}
