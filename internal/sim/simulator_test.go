package sim_test

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orbits/internal/integrators"
	"github.com/san-kum/orbits/internal/physics"
	"github.com/san-kum/orbits/internal/sim"
	"github.com/san-kum/orbits/internal/storage"
)

// memStore is an in-memory Persistence.
type memStore struct {
	docs  map[string][]physics.Body
	saves int
	loads int
}

func newMemStore() *memStore {
	return &memStore{docs: map[string][]physics.Body{}}
}

func (m *memStore) Load(path string) ([]physics.Body, error) {
	m.loads++
	bodies, ok := m.docs[path]
	if !ok {
		return nil, errors.New("no such document")
	}
	return physics.Clone(bodies), nil
}

func (m *memStore) Save(path string, bodies []physics.Body) error {
	m.saves++
	m.docs[path] = physics.Clone(bodies)
	return nil
}

type persistEvent struct {
	op, path string
	err      error
}

type recorder struct {
	steps   []uint64
	persist []persistEvent
}

func (r *recorder) OnStep(step uint64, _ []physics.Body) { r.steps = append(r.steps, step) }
func (r *recorder) OnPersist(op, path string, err error) {
	r.persist = append(r.persist, persistEvent{op, path, err})
}

func threeBodies() []physics.Body {
	return []physics.Body{
		physics.NewBody(mgl32.Vec2{-200, 0}, mgl32.Vec2{0, -60}, 1, physics.Color{R: 255}),
		physics.NewBody(mgl32.Vec2{200, 0}, mgl32.Vec2{0, 60}, 1, physics.Color{G: 255}),
		physics.NewBody(mgl32.Vec2{0, 300}, mgl32.Vec2{-30, 0}, 0.5, physics.Color{B: 255}),
	}
}

func down(p mgl32.Vec2) sim.Signals {
	return sim.Signals{Pointer: sim.Pointer{Down: true, Pos: p}}
}

func ticks(s *sim.Simulator, n int, sig sim.Signals) {
	for i := 0; i < n; i++ {
		s.Tick(sig)
	}
}

var _ = Describe("Simulator", func() {
	var (
		store *memStore
		rec   *recorder
		s     *sim.Simulator
	)

	BeforeEach(func() {
		store = newMemStore()
		rec = &recorder{}
		s = sim.New(
			sim.NewState(threeBodies()),
			physics.NewForceField(),
			integrators.NewSymplecticEuler(),
			store,
			sim.DefaultConfig(),
			nil,
		)
		s.AddObserver(rec)
	})

	It("starts running and advances every tick", func() {
		Expect(s.State().Running()).To(BeTrue())
		before := s.State().Bodies()

		ticks(s, 3, sim.Signals{})

		Expect(s.State().Steps()).To(Equal(uint64(3)))
		Expect(rec.steps).To(Equal([]uint64{1, 2, 3}))
		Expect(s.State().Bodies()).NotTo(Equal(before))
	})

	It("conserves momentum with no input", func() {
		px0, py0 := physics.Momentum(s.State().Bodies())
		ticks(s, 1000, sim.Signals{})
		px, py := physics.Momentum(s.State().Bodies())

		Expect(px).To(BeNumerically("~", px0, 0.5))
		Expect(py).To(BeNumerically("~", py0, 0.5))
	})

	It("keeps accelerations zeroed between ticks", func() {
		ticks(s, 5, sim.Signals{})
		for _, b := range s.State().Bodies() {
			Expect(b.Acc).To(Equal(mgl32.Vec2{}))
		}
	})

	Describe("toggling", func() {
		It("acts on the rising edge only", func() {
			ticks(s, 5, sim.Signals{ToggleRun: true})
			Expect(s.State().Running()).To(BeFalse())

			s.Tick(sim.Signals{})
			Expect(s.State().Running()).To(BeFalse())

			s.Tick(sim.Signals{ToggleRun: true})
			Expect(s.State().Running()).To(BeTrue())
		})

		It("freezes the bodies while paused", func() {
			s.Tick(sim.Signals{ToggleRun: true})
			frozen := s.State().Bodies()
			steps := s.State().Steps()

			ticks(s, 20, sim.Signals{})

			Expect(s.State().Bodies()).To(Equal(frozen))
			Expect(s.State().Steps()).To(Equal(steps))
			Expect(rec.steps).To(BeEmpty())
		})
	})

	Describe("reset", func() {
		It("restores the initial bodies without stepping", func() {
			ticks(s, 50, sim.Signals{})
			s.Tick(sim.Signals{Reset: true})
			Expect(s.State().Bodies()).To(Equal(threeBodies()))

			s.Tick(sim.Signals{Reset: true})
			Expect(s.State().Bodies()).To(Equal(threeBodies()))
		})

		It("keeps the run flag", func() {
			s.Tick(sim.Signals{ToggleRun: true})
			s.Tick(sim.Signals{Reset: true})
			Expect(s.State().Running()).To(BeFalse())
		})

		It("drops the selection", func() {
			s.Tick(down(mgl32.Vec2{-200, 0}))
			_, held := s.State().Selected()
			Expect(held).To(BeTrue())

			s.Tick(sim.Signals{Reset: true})
			_, held = s.State().Selected()
			Expect(held).To(BeFalse())
		})
	})

	Describe("dragging", func() {
		target := mgl32.Vec2{50, 50}

		It("selects on press and pins the body to the pointer while held", func() {
			s.Tick(down(mgl32.Vec2{-200, 0}))
			i, held := s.State().Selected()
			Expect(held).To(BeTrue())
			Expect(i).To(Equal(0))

			ticks(s, 10, down(target))
			b := s.State().Bodies()[0]
			Expect(b.Pos).To(Equal(target))
			Expect(b.Vel).To(Equal(mgl32.Vec2{}))

			// the rest of the system keeps moving
			Expect(s.State().Bodies()[1].Pos).NotTo(Equal(threeBodies()[1].Pos))
		})

		It("releases the body on pointer up", func() {
			s.Tick(down(mgl32.Vec2{-200, 0}))
			s.Tick(down(target))
			s.Tick(sim.Signals{})

			_, held := s.State().Selected()
			Expect(held).To(BeFalse())
			Expect(s.State().Bodies()[0].Pos).NotTo(Equal(target))
		})

		It("works while paused", func() {
			s.Tick(sim.Signals{ToggleRun: true})
			s.Tick(down(mgl32.Vec2{200, 0}))
			s.Tick(down(target))

			Expect(s.State().Bodies()[1].Pos).To(Equal(target))
			Expect(s.State().Bodies()[0]).To(Equal(threeBodies()[0]))
		})

		It("ignores presses on empty space", func() {
			s.Tick(sim.Signals{ToggleRun: true})
			s.Tick(down(mgl32.Vec2{1000, 1000}))
			s.Tick(down(target))

			_, held := s.State().Selected()
			Expect(held).To(BeFalse())
			Expect(s.State().Bodies()).To(Equal(threeBodies()))
		})
	})

	Describe("persistence", func() {
		It("saves the live bodies", func() {
			ticks(s, 10, sim.Signals{})
			want := s.State().Bodies()

			s.Tick(sim.Signals{Save: &sim.FileRequest{Path: "a.json"}})

			Expect(store.docs["a.json"]).To(Equal(want))
			Expect(rec.persist).To(Equal([]persistEvent{{"save", "a.json", nil}}))
		})

		It("treats an empty path as cancelled", func() {
			s.Tick(sim.Signals{
				Save: &sim.FileRequest{},
				Load: &sim.FileRequest{},
			})
			Expect(store.saves).To(Equal(0))
			Expect(store.loads).To(Equal(0))
			Expect(rec.persist).To(BeEmpty())
		})

		It("replaces the bodies and the reset snapshot on load", func() {
			loaded := []physics.Body{
				physics.NewBody(mgl32.Vec2{10, 10}, mgl32.Vec2{1, 1}, 2, physics.Color{R: 7}),
			}
			store.docs["b.json"] = loaded

			ticks(s, 10, sim.Signals{})
			s.Tick(sim.Signals{Load: &sim.FileRequest{Path: "b.json"}})
			Expect(s.State().Bodies()).To(Equal(loaded))
			Expect(s.State().Initial()).To(Equal(loaded))

			ticks(s, 10, sim.Signals{})
			s.Tick(sim.Signals{Reset: true})
			Expect(s.State().Bodies()).To(Equal(loaded))
		})

		It("leaves the state untouched when a load fails", func() {
			ticks(s, 10, sim.Signals{})
			s.Tick(sim.Signals{ToggleRun: true})
			before := s.State().Bodies()
			initial := s.State().Initial()

			s.Tick(sim.Signals{Load: &sim.FileRequest{Path: "missing.json"}})

			Expect(s.State().Bodies()).To(Equal(before))
			Expect(s.State().Initial()).To(Equal(initial))
			Expect(rec.persist).To(HaveLen(1))
			Expect(rec.persist[0].op).To(Equal("load"))
			Expect(rec.persist[0].err).To(HaveOccurred())
		})

		It("round trips through a document on disk", func() {
			codec := storage.NewCodec(0)
			disk := sim.New(sim.NewState(threeBodies()), physics.NewForceField(), integrators.NewSymplecticEuler(), codec, sim.DefaultConfig(), nil)
			path := filepath.Join(GinkgoT().TempDir(), "saves", "bodies.json")

			ticks(disk, 25, sim.Signals{})
			disk.Tick(sim.Signals{ToggleRun: true})
			saved := disk.State().Bodies()
			disk.Tick(sim.Signals{Save: &sim.FileRequest{Path: path}})

			disk.Tick(sim.Signals{Reset: true})
			disk.Tick(sim.Signals{Load: &sim.FileRequest{Path: path}})

			got := disk.State().Bodies()
			Expect(got).To(HaveLen(len(saved)))
			for i := range saved {
				Expect(got[i].Pos.ApproxEqualThreshold(saved[i].Pos, 1e-3)).To(BeTrue())
				Expect(got[i].Vel.ApproxEqualThreshold(saved[i].Vel, 1e-3)).To(BeTrue())
				Expect(got[i].Mass).To(Equal(saved[i].Mass))
				Expect(got[i].Color).To(Equal(saved[i].Color))
			}
		})

		It("ignores requests without storage", func() {
			bare := sim.New(sim.NewState(threeBodies()), physics.NewForceField(), integrators.NewSymplecticEuler(), nil, sim.DefaultConfig(), nil)
			Expect(func() {
				bare.Tick(sim.Signals{Save: &sim.FileRequest{Path: "x.json"}, Load: &sim.FileRequest{Path: "x.json"}})
			}).NotTo(Panic())
		})
	})

	Describe("Frame", func() {
		It("describes every body in index order", func() {
			frame := s.Frame()
			Expect(frame).To(HaveLen(3))
			Expect(frame[0].Position).To(Equal(mgl32.Vec2{-200, 0}))
			Expect(frame[0].Color).To(Equal([3]float32{1, 0, 0}))
			Expect(frame[2].Radius).To(Equal(physics.Radius(0.5, physics.RadiusScale)))
		})
	})

	Describe("Run", func() {
		It("stops when the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			Expect(s.Run(ctx, 100)).To(MatchError(context.Canceled))
			Expect(s.State().Steps()).To(BeZero())
		})

		It("feeds signals until the source is exhausted", func() {
			queue := []sim.Signals{{}, {ToggleRun: true}, {}}
			frames := 0
			err := s.RunWithCallback(context.Background(), func() (sim.Signals, bool) {
				if len(queue) == 0 {
					return sim.Signals{}, false
				}
				sig := queue[0]
				queue = queue[1:]
				return sig, true
			}, func([]sim.DrawRecord) { frames++ })

			Expect(err).NotTo(HaveOccurred())
			Expect(frames).To(Equal(3))
			Expect(s.State().Steps()).To(Equal(uint64(1)))
			Expect(s.State().Running()).To(BeFalse())
		})
	})
})
