// pinhole - software pinhole renderer for the terminal
// Renders glTF/GLB models (or a built-in demo triangle) with a
// physically based pinhole camera and perspective-correct vertex
// colours.
//
// Controls:
//
//	Mouse drag  - Rotate model (yaw/pitch)
//	Scroll      - Dolly in/out
//	W/S         - Pitch up/down
//	A/D         - Yaw left/right
//	Q/E         - Roll left/right
//	Space       - Apply random impulse
//	R           - Reset rotation
//	X           - Toggle wireframe mode
//	+/-         - Dolly in/out
//	Esc         - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/pinhole/pkg/math3d"
	"github.com/taigrr/pinhole/pkg/models"
	"github.com/taigrr/pinhole/pkg/render"
)

var (
	targetFPS   = flag.Int("fps", 60, "Target FPS")
	bgColor     = flag.String("bg", "30,30,40", "Background color (R,G,B)")
	focalLength = flag.Float64("focal", 35, "Focal length in mm")
	// Projection mirrors x, so triangles wound counter-clockwise in
	// world space arrive clockwise in raster space.
	winding = flag.String("winding", "cw", "Raster-space front-face winding (cw or ccw)")
	pngPath = flag.String("png", "", "Render a single 800x600 frame to this PNG file and exit")
	svgPath = flag.String("svg", "", "Export a single 800x600 wireframe to this SVG file and exit")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "pinhole - software pinhole renderer for the terminal\n\n")
		fmt.Fprintf(os.Stderr, "Usage: pinhole [options] [model.glb]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  Mouse drag  - Rotate model\n")
		fmt.Fprintf(os.Stderr, "  Scroll      - Dolly in/out\n")
		fmt.Fprintf(os.Stderr, "  W/S/A/D     - Pitch and yaw\n")
		fmt.Fprintf(os.Stderr, "  Q/E         - Roll left/right\n")
		fmt.Fprintf(os.Stderr, "  Space       - Random spin\n")
		fmt.Fprintf(os.Stderr, "  R           - Reset view\n")
		fmt.Fprintf(os.Stderr, "  X           - Toggle wireframe\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	flag.Parse()

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// RotationAxis tracks position and velocity for one rotation axis with
// spring decay.
type RotationAxis struct {
	Position  float64
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64
}

// NewRotationAxis creates an axis with a harmonica spring for smooth
// velocity decay.
func NewRotationAxis(fps int) RotationAxis {
	return RotationAxis{
		// Frequency 4.0, critically damped so velocity never overshoots
		// past zero.
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update applies velocity to position and decays velocity toward 0.
func (a *RotationAxis) Update() {
	a.Position += a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
}

// RotationState holds the model rotation with spring physics per axis.
type RotationState struct {
	Pitch, Yaw, Roll RotationAxis
	fps              int
}

func NewRotationState(fps int) *RotationState {
	return &RotationState{
		Pitch: NewRotationAxis(fps),
		Yaw:   NewRotationAxis(fps),
		Roll:  NewRotationAxis(fps),
		fps:   fps,
	}
}

func (r *RotationState) Update() {
	r.Pitch.Update()
	r.Yaw.Update()
	r.Roll.Update()
}

func (r *RotationState) ApplyImpulse(pitch, yaw, roll float64) {
	r.Pitch.Velocity += pitch
	r.Yaw.Velocity += yaw
	r.Roll.Velocity += roll
}

func (r *RotationState) Reset() {
	r.Pitch = NewRotationAxis(r.fps)
	r.Yaw = NewRotationAxis(r.fps)
	r.Roll = NewRotationAxis(r.fps)
}

func (r *RotationState) Matrix() math3d.Mat4 {
	return math3d.RotateX(r.Pitch.Position).
		Mul(math3d.RotateY(r.Yaw.Position)).
		Mul(math3d.RotateZ(r.Roll.Position))
}

// demoMesh builds the classic vertex-coloured triangle, already in the
// renderer's unit scale.
func demoMesh() *models.Mesh {
	mesh := models.NewMesh("demo triangle")
	mesh.Vertices = []models.MeshVertex{
		{Position: math3d.V3(-0.9, -0.7, 0), Colour: render.Red},
		{Position: math3d.V3(0.9, -0.7, 0), Colour: render.Green},
		{Position: math3d.V3(0, 0.9, 0), Colour: render.Blue},
	}
	mesh.Faces = []models.Face{{V: [3]int{0, 1, 2}}}
	mesh.CalculateBounds()
	return mesh
}

func loadMesh(modelPath string) (*models.Mesh, error) {
	if modelPath == "" {
		return demoMesh(), nil
	}

	ext := strings.ToLower(filepath.Ext(modelPath))
	switch ext {
	case ".glb", ".gltf":
		mesh, err := models.LoadGLB(modelPath)
		if err != nil {
			return nil, fmt.Errorf("load model: %w", err)
		}
		mesh.NormalizeToUnit()
		return mesh, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (use .glb or .gltf)", ext)
	}
}

// newCamera builds a full-frame pinhole camera at distance dist from
// the origin looking down the z axis.
func newCamera(resolution image.Point, dist float64) (*render.Camera, error) {
	return render.NewCamera(
		math3d.Translate(math3d.V3(0, 0, dist)),
		resolution,
		*focalLength,
		math3d.V2(36, 24),
		0.1, 100,
		render.FitFill,
	)
}

func parseWinding(s string) (render.WindingOrder, error) {
	switch strings.ToLower(s) {
	case "cw":
		return render.Clockwise, nil
	case "ccw":
		return render.CounterClockwise, nil
	default:
		return 0, fmt.Errorf("invalid winding %q (use cw or ccw)", s)
	}
}

// renderFrame draws the rotated mesh into the framebuffer.
func renderFrame(fb *render.Framebuffer, cam *render.Camera, rast *render.Rasterizer, mesh *models.Mesh, model math3d.Mat4, wire bool, bg render.Colour) {
	fb.Clear(bg)

	if wire {
		wf := render.NewWireframe(cam, fb)
		for i := range mesh.Faces {
			wf.DrawTriangleEdges(mesh.Triangle(i).Transform(model), render.Colour{G: 1, B: 0.5, A: 1})
		}
		return
	}

	for i := range mesh.Faces {
		tri := mesh.Triangle(i).Transform(model)
		proj, err := cam.ProjectTriangle(tri)
		if err != nil {
			continue
		}
		rast.DrawTrianglePerspective(fb, proj)
	}
}

// exportOneShot renders a single 800x600 frame to PNG or SVG and
// returns.
func exportOneShot(mesh *models.Mesh, rast *render.Rasterizer, bg render.Colour) error {
	const dist = 4.0
	res := image.Pt(800, 600)

	cam, err := newCamera(res, dist)
	if err != nil {
		return err
	}

	if *svgPath != "" {
		f, err := os.Create(*svgPath)
		if err != nil {
			return fmt.Errorf("create svg: %w", err)
		}
		defer f.Close()

		exp := render.NewSVGExporter(f, cam)
		for i := range mesh.Faces {
			exp.Triangle(mesh.Triangle(i), render.White)
		}
		exp.Close()
		return nil
	}

	fb := render.NewFramebuffer(res.X, res.Y)
	renderFrame(fb, cam, rast, mesh, math3d.Identity(), false, bg)
	return fb.SavePNG(*pngPath)
}

func run(modelPath string) error {
	var bgR, bgG, bgB uint8 = 30, 30, 40
	fmt.Sscanf(*bgColor, "%d,%d,%d", &bgR, &bgG, &bgB)
	bg := render.RGBA8{R: bgR, G: bgG, B: bgB, A: 255}.Colour()

	wo, err := parseWinding(*winding)
	if err != nil {
		return err
	}
	rast := &render.Rasterizer{Winding: wo}

	mesh, err := loadMesh(modelPath)
	if err != nil {
		return err
	}

	if *pngPath != "" || *svgPath != "" {
		return exportOneShot(mesh, rast, bg)
	}

	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Enable mouse tracking (any-event + SGR extended)
	fmt.Fprint(os.Stdout, "\x1b[?1003h")
	fmt.Fprint(os.Stdout, "\x1b[?1006h")

	termRenderer := render.NewTerminalRenderer(term, width, height)
	fbWidth, fbHeight := termRenderer.FramebufferSize()
	fb := render.NewFramebuffer(fbWidth, fbHeight)

	cameraDist := 4.0
	camera, err := newCamera(image.Pt(fbWidth, fbHeight), cameraDist)
	if err != nil {
		return err
	}

	rotation := NewRotationState(*targetFPS)
	wireframe := false

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	inputTorque := struct{ pitch, yaw, roll float64 }{}
	const torqueStrength = 3.0

	var mouseDown bool
	var lastMouseX, lastMouseY int

	go func() {
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				width, height = ev.Width, ev.Height
				term.Erase()
				term.Resize(width, height)
				termRenderer = render.NewTerminalRenderer(term, width, height)
				fbWidth, fbHeight = termRenderer.FramebufferSize()
				fb = render.NewFramebuffer(fbWidth, fbHeight)
				if c, err := newCamera(image.Pt(fbWidth, fbHeight), cameraDist); err == nil {
					camera = c
				}

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape"), ev.MatchString("ctrl+c"):
					cancel()
					return
				case ev.MatchString("q"):
					inputTorque.roll = -torqueStrength
				case ev.MatchString("e"):
					inputTorque.roll = torqueStrength
				case ev.MatchString("r"):
					rotation.Reset()
					cameraDist = 4.0
					camera.SetTransform(math3d.Translate(math3d.V3(0, 0, cameraDist)))
				case ev.MatchString("w", "up"):
					inputTorque.pitch = -torqueStrength
				case ev.MatchString("s", "down"):
					inputTorque.pitch = torqueStrength
				case ev.MatchString("a", "left"):
					inputTorque.yaw = -torqueStrength
				case ev.MatchString("d", "right"):
					inputTorque.yaw = torqueStrength
				case ev.MatchString("space"):
					rotation.ApplyImpulse(
						(rand.Float64()-0.5)*1.5,
						(rand.Float64()-0.5)*1.5,
						(rand.Float64()-0.5)*1.5,
					)
				case ev.MatchString("+", "="):
					cameraDist = math.Max(1, cameraDist-0.5)
					camera.SetTransform(math3d.Translate(math3d.V3(0, 0, cameraDist)))
				case ev.MatchString("-", "_"):
					cameraDist = math.Min(20, cameraDist+0.5)
					camera.SetTransform(math3d.Translate(math3d.V3(0, 0, cameraDist)))
				case ev.MatchString("x"):
					wireframe = !wireframe
				}

			case uv.KeyReleaseEvent:
				switch {
				case ev.MatchString("w"), ev.MatchString("up"), ev.MatchString("s"), ev.MatchString("down"):
					inputTorque.pitch = 0
				case ev.MatchString("a"), ev.MatchString("left"), ev.MatchString("d"), ev.MatchString("right"):
					inputTorque.yaw = 0
				case ev.MatchString("q"), ev.MatchString("e"):
					inputTorque.roll = 0
				}

			case uv.MouseClickEvent:
				mouseDown = true
				lastMouseX, lastMouseY = ev.X, ev.Y

			case uv.MouseReleaseEvent:
				mouseDown = false

			case uv.MouseMotionEvent:
				if mouseDown {
					dx := ev.X - lastMouseX
					dy := ev.Y - lastMouseY
					rotation.ApplyImpulse(float64(dy)*0.03, float64(dx)*0.03, 0)
					lastMouseX, lastMouseY = ev.X, ev.Y
				}

			case uv.MouseWheelEvent:
				switch ev.Button {
				case uv.MouseWheelUp:
					cameraDist = math.Max(1, cameraDist-0.5)
				case uv.MouseWheelDown:
					cameraDist = math.Min(20, cameraDist+0.5)
				}
				camera.SetTransform(math3d.Translate(math3d.V3(0, 0, cameraDist)))
			}
		}
	}()

	targetDuration := time.Second / time.Duration(*targetFPS)
	lastFrame := time.Now()

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}

	for {
		select {
		case <-ctx.Done():
			cleanup()
			return nil
		default:
		}

		now := time.Now()
		dt := now.Sub(lastFrame).Seconds()
		lastFrame = now

		if dt > 0.1 {
			dt = 0.1
		}

		// Apply input torque and decay it (key release events are
		// unreliable on some terminals).
		rotation.ApplyImpulse(
			inputTorque.pitch*dt,
			inputTorque.yaw*dt,
			inputTorque.roll*dt,
		)
		inputTorque.pitch *= 0.9
		inputTorque.yaw *= 0.9
		inputTorque.roll *= 0.9

		rotation.Update()

		renderFrame(fb, camera, rast, mesh, rotation.Matrix(), wireframe, bg)

		termRenderer.Render(fb)
		if err := termRenderer.Flush(); err != nil {
			cleanup()
			return fmt.Errorf("flush: %w", err)
		}

		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}
