package capture

import (
	"errors"
	"image"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zoeyai/zoeyevidence/pkg/display"
)

// fakeSource 模拟显示器布局，截图返回与矩形同尺寸的空白位图
type fakeSource struct {
	monitors []display.Monitor
	err      error
	grabs    []image.Rectangle
}

func (f *fakeSource) Monitors() ([]display.Monitor, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.monitors, nil
}

func (f *fakeSource) Grab(r image.Rectangle) (image.Image, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.grabs = append(f.grabs, r)
	return image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy())), nil
}

type fakeLocator struct {
	monitor display.Monitor
	err     error
}

func (f fakeLocator) MonitorAt(pt image.Point) (display.Monitor, error) {
	return f.monitor, f.err
}

type fakePrimary struct {
	bounds image.Rectangle
	err    error
	panics bool
}

func (f fakePrimary) PrimaryBounds() (image.Rectangle, error) {
	return f.bounds, f.err
}

func (f fakePrimary) GrabPrimary() (image.Image, error) {
	if f.panics {
		panic("display server gone")
	}
	if f.err != nil {
		return nil, f.err
	}
	return image.NewRGBA(image.Rect(0, 0, f.bounds.Dx(), f.bounds.Dy())), nil
}

func sideBySide() *fakeSource {
	return &fakeSource{monitors: []display.Monitor{
		{Index: 0, Bounds: image.Rect(0, 0, 1920, 1080), Primary: true},
		{Index: 1, Bounds: image.Rect(1920, 0, 3840, 1080)},
	}}
}

func TestMonitorStrategySelectsSecondary(t *testing.T) {
	src := sideBySide()
	res, err := MonitorStrategy("fastgrab", src).Capture(image.Pt(2500, 300), display.Full)
	require.NoError(t, err)

	assert.Equal(t, image.Rect(1920, 0, 3840, 1080), res.Rect)
	assert.Equal(t, image.Pt(580, 300), res.Local)
	assert.Equal(t, 1920, res.Image.Bounds().Dx())
	assert.Equal(t, "fastgrab:display=1", res.Method)
}

func TestMonitorStrategyWorkAreaIs70pxShorter(t *testing.T) {
	src := sideBySide()
	s := MonitorStrategy("fastgrab", src)

	full, err := s.Capture(image.Pt(2500, 300), display.Full)
	require.NoError(t, err)
	work, err := s.Capture(image.Pt(2500, 300), display.WorkArea)
	require.NoError(t, err)

	assert.Equal(t, full.Rect.Dy()-70, work.Rect.Dy())
	assert.Equal(t, full.Rect.Dx(), work.Rect.Dx())
	assert.Equal(t, full.Rect.Min, work.Rect.Min)
	assert.Equal(t, full.Image.Bounds().Dy()-70, work.Image.Bounds().Dy())
	assert.Equal(t, full.Local, work.Local)
}

func TestMonitorStrategyGapFallsBackToFirst(t *testing.T) {
	src := &fakeSource{monitors: []display.Monitor{
		{Index: 0, Bounds: image.Rect(0, 0, 1920, 1080)},
		{Index: 1, Bounds: image.Rect(1920, 300, 3200, 1324)},
	}}

	res, err := MonitorStrategy("fastgrab", src).Capture(image.Pt(2500, 100), display.Full)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 1920, 1080), res.Rect)
	assert.Equal(t, image.Pt(2500, 100), res.Local)
	assert.True(t, strings.HasSuffix(res.Method, ",fallback"))
}

func TestMonitorStrategyNegativeOrigin(t *testing.T) {
	src := &fakeSource{monitors: []display.Monitor{
		{Index: 0, Bounds: image.Rect(0, 0, 1920, 1080)},
		{Index: 1, Bounds: image.Rect(-1280, -1024, 0, 0)},
	}}

	res, err := MonitorStrategy("enumerate", src).Capture(image.Pt(-100, -24), display.Full)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(1180, 1000), res.Local)
}

func TestMonitorStrategyNoMonitors(t *testing.T) {
	_, err := MonitorStrategy("fastgrab", &fakeSource{}).Capture(image.Pt(0, 0), display.Full)
	assert.ErrorIs(t, err, ErrNoMonitor)
}

func TestNativeStrategyUsesOSWorkArea(t *testing.T) {
	loc := fakeLocator{monitor: display.Monitor{
		Bounds: image.Rect(1920, 0, 3840, 1080),
		Work:   image.Rect(1920, 0, 3840, 1040),
	}}
	g := &fakeSource{}

	res, err := NativeStrategy(loc, g).Capture(image.Pt(2500, 300), display.WorkArea)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(1920, 0, 3840, 1040), res.Rect)
	assert.Equal(t, image.Pt(580, 300), res.Local)
	require.Len(t, g.grabs, 1)
	assert.Equal(t, res.Rect, g.grabs[0])
}

func TestPrimaryStrategyClampsOutside(t *testing.T) {
	p := fakePrimary{bounds: image.Rect(0, 0, 1920, 1080)}

	res, err := PrimaryStrategy(p).Capture(image.Pt(2500, 300), display.Full)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(1920-display.ClampMargin, 300), res.Local)

	res, err = PrimaryStrategy(p).Capture(image.Pt(-40, 2000), display.Full)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(0, 1080-display.ClampMargin), res.Local)
}

func TestPrimaryStrategyWorkAreaCrops(t *testing.T) {
	p := fakePrimary{bounds: image.Rect(0, 0, 1920, 1080)}

	res, err := PrimaryStrategy(p).Capture(image.Pt(100, 1060), display.WorkArea)
	require.NoError(t, err)
	assert.Equal(t, 1010, res.Image.Bounds().Dy())
	assert.Equal(t, image.Rect(0, 0, 1920, 1010), res.Rect)
	// 落在任务栏上的点夹取到工作区内
	assert.Equal(t, image.Pt(100, 1010-display.ClampMargin), res.Local)
}

func TestDefaultStrategyKeepsCoordinates(t *testing.T) {
	p := fakePrimary{bounds: image.Rect(0, 0, 1280, 720)}

	res, err := DefaultStrategy(p).Capture(image.Pt(3000, -5), display.WorkArea)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(3000, -5), res.Local)
	assert.Equal(t, "default", res.Method)
}

func TestResolverFallsThroughInOrder(t *testing.T) {
	failing := &fakeSource{err: errors.New("no X display")}
	working := sideBySide()

	r := NewResolver(
		NativeStrategy(fakeLocator{err: display.ErrUnsupported}, working),
		MonitorStrategy("fastgrab", failing),
		MonitorStrategy("enumerate", working),
		PrimaryStrategy(fakePrimary{bounds: image.Rect(0, 0, 1920, 1080)}),
	)

	assert.Equal(t, []string{"native", "fastgrab", "enumerate", "primary"}, r.Strategies())

	res := r.Resolve(image.Pt(2500, 300), display.Full)
	assert.Equal(t, "enumerate:display=1", res.Method)
	assert.Equal(t, image.Pt(580, 300), res.Local)
}

func TestResolverRecoversPanics(t *testing.T) {
	r := NewResolver(
		DefaultStrategy(fakePrimary{bounds: image.Rect(0, 0, 10, 10), panics: true}),
		PrimaryStrategy(fakePrimary{bounds: image.Rect(0, 0, 1920, 1080)}),
	)

	res := r.Resolve(image.Pt(10, 20), display.Full)
	assert.Equal(t, "primary", res.Method)
	assert.Equal(t, image.Pt(10, 20), res.Local)
}

func TestResolverPlaceholderOnTotalFailure(t *testing.T) {
	r := NewResolver(
		MonitorStrategy("fastgrab", &fakeSource{err: errors.New("boom")}),
		DefaultStrategy(fakePrimary{err: errors.New("last failure")}),
	)

	res := r.Resolve(image.Pt(2500, 300), display.Full)
	require.NotNil(t, res.Image)
	assert.Equal(t, image.Point{}, res.Local)
	assert.Equal(t, PlaceholderWidth, res.Image.Bounds().Dx())
	assert.True(t, strings.HasPrefix(res.Method, "placeholder: "))
	assert.Contains(t, res.Method, "last failure")
}

func TestResolverEmptyChain(t *testing.T) {
	res := NewResolver().Resolve(image.Pt(1, 1), display.Full)
	assert.True(t, strings.HasPrefix(res.Method, "placeholder: "))
}

func TestResolverNilImageDemotes(t *testing.T) {
	empty := Strategy{Name: "empty", Capture: func(image.Point, display.Mode) (*Result, error) {
		return &Result{}, nil
	}}
	r := NewResolver(empty, DefaultStrategy(fakePrimary{bounds: image.Rect(0, 0, 10, 10)}))

	res := r.Resolve(image.Pt(1, 1), display.Full)
	assert.Equal(t, "default", res.Method)
}

// scaledScreen 模拟 150% 缩放下的 robotgo：坐标为逻辑值，位图为物理像素
type scaledScreen struct {
	scale    float64
	logical  []image.Rectangle
	captured [][]int
}

func (s *scaledScreen) DisplaysNum() int { return len(s.logical) }

func (s *scaledScreen) GetDisplayBounds(i int) (int, int, int, int) {
	r := s.logical[i]
	return r.Min.X, r.Min.Y, r.Dx(), r.Dy()
}

func (s *scaledScreen) GetScreenSize() (int, int) {
	return s.logical[0].Dx(), s.logical[0].Dy()
}

func (s *scaledScreen) CaptureImg(args ...int) (image.Image, error) {
	s.captured = append(s.captured, args)
	w, h := s.logical[0].Dx(), s.logical[0].Dy()
	if len(args) == 4 {
		w, h = args[2], args[3]
	}
	return image.NewRGBA(image.Rect(0, 0, display.ScaleInt(w, s.scale), display.ScaleInt(h, s.scale))), nil
}

func scaledBackend() (RobotgoBackend, *scaledScreen) {
	screen := &scaledScreen{
		scale:   1.5,
		logical: []image.Rectangle{image.Rect(0, 0, 1280, 720), image.Rect(1280, 0, 2560, 720)},
	}
	return RobotgoBackend{screen: screen, scale: func() (float64, float64) { return 1.5, 1.5 }}, screen
}

func TestRobotgoBackendMapsScaledCoordinates(t *testing.T) {
	b, screen := scaledBackend()

	monitors, err := b.Monitors()
	require.NoError(t, err)
	require.Len(t, monitors, 2)
	assert.Equal(t, image.Rect(1920, 0, 3840, 1080), monitors[1].Bounds)

	// 物理点击坐标落在第二块显示器
	res, err := MonitorStrategy("enumerate", b).Capture(image.Pt(2500, 300), display.Full)
	require.NoError(t, err)
	assert.Equal(t, "enumerate:display=1", res.Method)
	assert.Equal(t, image.Pt(580, 300), res.Local)
	assert.Equal(t, []int{1280, 0, 1280, 720}, screen.captured[0])
	assert.Equal(t, res.Rect.Size(), res.Image.Bounds().Size(), "位图与截图矩形同为物理像素")
}

func TestRobotgoBackendPrimaryIsPhysical(t *testing.T) {
	b, _ := scaledBackend()

	bounds, err := b.PrimaryBounds()
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 1920, 1080), bounds)

	res, err := PrimaryStrategy(b).Capture(image.Pt(1900, 1050), display.WorkArea)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 1920, 1010), res.Rect)
	assert.Equal(t, res.Rect.Size(), res.Image.Bounds().Size())
	assert.Equal(t, image.Pt(1900, 1010-display.ClampMargin), res.Local)
}
