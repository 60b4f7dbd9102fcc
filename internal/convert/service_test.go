package convert

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rvgl-uber/textools/internal/config"
	"github.com/rvgl-uber/textools/internal/model"
)

// fakeRunner records every command and fails on arguments containing failOn.
// When hold is set, successful commands wait for it to close.
type fakeRunner struct {
	mu     sync.Mutex
	calls  [][]string
	failOn string
	hold   chan struct{}
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) error {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string{name}, args...))
	f.mu.Unlock()

	if f.failOn != "" {
		for _, arg := range args {
			if strings.Contains(arg, f.failOn) {
				return errors.New("exit status 1")
			}
		}
	}
	if f.hold != nil {
		<-f.hold
		return ctx.Err()
	}
	return nil
}

func (f *fakeRunner) commands() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]string(nil), f.calls...)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func newTestService(t *testing.T, runner *fakeRunner) (*Service, *config.Settings) {
	t.Helper()
	assets := filepath.Join(t.TempDir(), "assets")
	if err := os.Mkdir(assets, 0755); err != nil {
		t.Fatalf("Failed to create assets dir: %v", err)
	}
	settings := config.NewSettings(assets, "-upscaled")
	settings.SetMaxParallel(2)
	return NewService(settings, runner), settings
}

func TestNewService(t *testing.T) {
	service, _ := newTestService(t, &fakeRunner{})

	if _, exists := service.GetTask("convert-missing"); exists {
		t.Error("Expected no tasks on a new service")
	}
}

func TestPre(t *testing.T) {
	runner := &fakeRunner{}
	service, settings := newTestService(t, runner)

	assets := settings.AssetsDir
	for _, name := range []string{"cars/rc/body.bmn", "cars/rc/body.bmo", "cars/rc/body.bmq", "levels/floor.bmp", "levels/floor.bmq", "levels/odd.bmx", "levels/notes.txt"} {
		writeFile(t, filepath.Join(assets, name), "tex")
	}

	tasks, err := service.Pre(context.Background())
	if err != nil {
		t.Fatalf("Pre() returned error: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("Expected 3 tasks, got %d", len(tasks))
	}

	uhd := settings.UHDDir()
	expected := map[string]string{
		filepath.Join(assets, "cars/rc/body.bmn"): filepath.Join(uhd, "cars/rc/body.bmp"),
		filepath.Join(assets, "levels/floor.bmp"): filepath.Join(uhd, "levels/floor.bmp"),
		filepath.Join(assets, "levels/odd.bmx"):   filepath.Join(uhd, "levels/odd.bmp"),
	}

	calls := runner.commands()
	if len(calls) != len(expected) {
		t.Fatalf("Expected %d commands, got %d", len(expected), len(calls))
	}
	for _, call := range calls {
		if call[0] != config.DefaultMagickCommand {
			t.Errorf("Expected %s command, got %s", config.DefaultMagickCommand, call[0])
		}
		src := call[2]
		dst, ok := expected[src]
		if !ok {
			t.Errorf("Unexpected source converted: %s", src)
			continue
		}
		if call[len(call)-1] != "png:"+dst {
			t.Errorf("Expected output png:%s, got %s", dst, call[len(call)-1])
		}
	}

	for _, task := range tasks {
		if task.Status != model.TaskStatusCompleted {
			t.Errorf("Task %s status = %s, expected Completed", task.Source, task.Status)
		}
		if !strings.HasPrefix(task.ID, TaskIDPrefix) {
			t.Errorf("Expected ID prefix %s, got %s", TaskIDPrefix, task.ID)
		}
		if _, err := os.Stat(filepath.Dir(task.Output)); err != nil {
			t.Errorf("Output directory for %s was not created: %v", task.Output, err)
		}
		if retrieved, ok := service.GetTask(task.ID); !ok || retrieved != task {
			t.Errorf("Task %s should be retrievable", task.ID)
		}
	}
}

func TestPost(t *testing.T) {
	runner := &fakeRunner{}
	service, settings := newTestService(t, runner)

	uhd := settings.UHDDir()
	hd := settings.HDDir()
	intermediate := filepath.Join(uhd, "cars", "rc", "body.bmp")
	upscaled := filepath.Join(uhd, "cars", "rc", "body-upscaled.png")
	writeFile(t, intermediate, "intermediate")
	writeFile(t, upscaled, "upscaled")

	tasks, err := service.Post(context.Background())
	if err != nil {
		t.Fatalf("Post() returned error: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("Expected 1 task, got %d", len(tasks))
	}

	if _, err := os.Stat(upscaled); !os.IsNotExist(err) {
		t.Error("Upscaled file should have been renamed")
	}
	data, err := os.ReadFile(intermediate)
	if err != nil {
		t.Fatalf("Failed to read replaced texture: %v", err)
	}
	if string(data) != "upscaled" {
		t.Errorf("Expected intermediate to be replaced by upscaled content, got %q", data)
	}
	if _, err := os.Stat(filepath.Join(hd, "cars", "rc")); err != nil {
		t.Errorf("HD directory was not created: %v", err)
	}

	calls := runner.commands()
	if len(calls) != 2 {
		t.Fatalf("Expected 2 commands, got %d", len(calls))
	}
	uhdArgs := append([]string{config.DefaultMagickCommand}, BuildUHDArgs(intermediate, config.DefaultProfilePath)...)
	hdArgs := append([]string{config.DefaultMagickCommand}, BuildHDArgs(intermediate, filepath.Join(hd, "cars", "rc", "body.bmp"))...)
	if strings.Join(calls[0], " ") != strings.Join(uhdArgs, " ") {
		t.Errorf("First command = %v, expected %v", calls[0], uhdArgs)
	}
	if strings.Join(calls[1], " ") != strings.Join(hdArgs, " ") {
		t.Errorf("Second command = %v, expected %v", calls[1], hdArgs)
	}
}

func TestPost_MissingIntermediate(t *testing.T) {
	runner := &fakeRunner{}
	service, settings := newTestService(t, runner)

	upscaled := filepath.Join(settings.UHDDir(), "wheel-upscaled.png")
	writeFile(t, upscaled, "upscaled")

	if _, err := service.Post(context.Background()); err != nil {
		t.Fatalf("Post() returned error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(settings.UHDDir(), "wheel.bmp")); err != nil {
		t.Errorf("Upscaled file should be moved into place: %v", err)
	}
}

func TestPost_DryRun(t *testing.T) {
	runner := &fakeRunner{}
	service, settings := newTestService(t, runner)
	settings.DryRun = true

	upscaled := filepath.Join(settings.UHDDir(), "body-upscaled.png")
	writeFile(t, upscaled, "upscaled")

	if _, err := service.Post(context.Background()); err != nil {
		t.Fatalf("Post() returned error: %v", err)
	}
	if _, err := os.Stat(upscaled); err != nil {
		t.Errorf("Dry run must not move files: %v", err)
	}
	if _, err := os.Stat(settings.HDDir()); !os.IsNotExist(err) {
		t.Error("Dry run must not create the HD directory")
	}
	if len(runner.commands()) != 2 {
		t.Errorf("Expected 2 commands passed to runner, got %d", len(runner.commands()))
	}
}

func TestPre_FailureSkipsRemaining(t *testing.T) {
	runner := &fakeRunner{failOn: "a.bmn"}
	service, settings := newTestService(t, runner)
	settings.SetMaxParallel(1)

	for _, name := range []string{"a.bmn", "b.bmn", "c.bmn"} {
		writeFile(t, filepath.Join(settings.AssetsDir, name), "tex")
	}

	var updates []model.TaskStatus
	var mu sync.Mutex
	service.SetUpdateCallback(func(task *model.ConversionTask) {
		mu.Lock()
		updates = append(updates, task.Status)
		mu.Unlock()
	})

	tasks, err := service.Pre(context.Background())
	if err == nil {
		t.Fatal("Expected error from failing conversion, got nil")
	}
	if !strings.Contains(err.Error(), "exit status 1") {
		t.Errorf("Unexpected error: %v", err)
	}

	statuses := []model.TaskStatus{model.TaskStatusError, model.TaskStatusSkipped, model.TaskStatusSkipped}
	for i, task := range tasks {
		if task.Status != statuses[i] {
			t.Errorf("Task %s status = %s, expected %s", task.Source, task.Status, statuses[i])
		}
	}
	if tasks[0].LastError == "" {
		t.Error("Failed task should record its error")
	}
	if len(runner.commands()) != 1 {
		t.Errorf("Expected only the failing command to run, got %d", len(runner.commands()))
	}

	mu.Lock()
	defer mu.Unlock()
	if len(updates) != 7 {
		t.Errorf("Expected 7 updates (3x pending, running, error, 2x skipped), got %d", len(updates))
	}
}

func TestPre_CanceledContext(t *testing.T) {
	runner := &fakeRunner{}
	service, settings := newTestService(t, runner)
	writeFile(t, filepath.Join(settings.AssetsDir, "a.bmn"), "tex")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tasks, err := service.Pre(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Status != model.TaskStatusSkipped {
		t.Errorf("Expected single skipped task, got %+v", tasks)
	}
	if len(runner.commands()) != 0 {
		t.Error("No command should run after cancellation")
	}
}

func TestPost_FailureLetsRunningJobsFinish(t *testing.T) {
	runner := &fakeRunner{failOn: "bad.bmp", hold: make(chan struct{})}
	service, settings := newTestService(t, runner)
	settings.SetMaxParallel(2)

	uhd := settings.UHDDir()
	good := filepath.Join(uhd, "good-upscaled.png")
	writeFile(t, filepath.Join(uhd, "bad-upscaled.png"), "bad")
	writeFile(t, good, "good")

	var once sync.Once
	service.SetUpdateCallback(func(task *model.ConversionTask) {
		if task.Status == model.TaskStatusError {
			once.Do(func() { close(runner.hold) })
		}
	})

	tasks, err := service.Post(context.Background())
	if err == nil {
		t.Fatal("Expected error from failing conversion, got nil")
	}

	statuses := map[string]model.TaskStatus{}
	for _, task := range tasks {
		statuses[filepath.Base(task.Source)] = task.Status
	}
	if statuses["bad-upscaled.png"] != model.TaskStatusError {
		t.Errorf("bad-upscaled.png status = %s, expected Error", statuses["bad-upscaled.png"])
	}
	if statuses["good-upscaled.png"] != model.TaskStatusCompleted {
		t.Errorf("good-upscaled.png status = %s, expected Completed", statuses["good-upscaled.png"])
	}

	if _, err := os.Stat(settings.HDDir()); err != nil {
		t.Errorf("HD tree should exist for the finished texture: %v", err)
	}
	hdCall := false
	for _, call := range runner.commands() {
		if call[len(call)-1] == "png:"+filepath.Join(settings.HDDir(), "good.bmp") {
			hdCall = true
		}
	}
	if !hdCall {
		t.Error("HD copy of the running texture should have been derived")
	}
}

func TestPost_MissingUHDTree(t *testing.T) {
	runner := &fakeRunner{}
	service, settings := newTestService(t, runner)

	_, err := service.Post(context.Background())
	if err == nil {
		t.Fatal("Expected error without a UHD tree, got nil")
	}
	if !strings.Contains(err.Error(), "run pre first") || !strings.Contains(err.Error(), settings.UHDDir()) {
		t.Errorf("Unexpected error: %v", err)
	}
	if len(runner.commands()) != 0 {
		t.Error("No command should run without a UHD tree")
	}
}
