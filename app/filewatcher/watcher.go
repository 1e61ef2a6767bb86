package filewatcher

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"tube-fusion/app/logger"

	"github.com/fsnotify/fsnotify"
)

// CookieWatcher 监控 yt-dlp 的 cookies 文件。
// yt-dlp 每次调用都重新读取该文件，所以发现更新后只需记录并校验，
// 不需要通知提取器重载。监控目录而不是文件本身，以便捕获文件被替换的情况。
type CookieWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	logger  *logger.Logger
	stopCh  chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// New 创建 cookies 文件监控器。path 为空时返回 nil，表示不启用监控。
func New(path string, log *logger.Logger) (*CookieWatcher, error) {
	if path == "" {
		return nil, nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("创建文件监控器失败: %w", err)
	}

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("添加监控目录失败: %w", err)
	}

	return &CookieWatcher{
		path:    path,
		watcher: watcher,
		logger:  log,
		stopCh:  make(chan struct{}),
	}, nil
}

// Start 启动监控
func (w *CookieWatcher) Start() {
	if w == nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return
	}
	w.running = true

	w.wg.Add(1)
	go w.loop()

	w.logger.WithField("path", w.path).Info("cookies 文件监控已启动")
}

// Stop 停止监控
func (w *CookieWatcher) Stop() {
	if w == nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	w.running = false

	close(w.stopCh)
	w.watcher.Close()
	w.wg.Wait()

	w.logger.Info("cookies 文件监控已停止")
}

// loop 消费文件事件，只关心被监控的那一个文件
func (w *CookieWatcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Errorf("cookies 文件监控出错: %v", err)
		}
	}
}

// handleEvent 处理单个文件事件
func (w *CookieWatcher) handleEvent(event fsnotify.Event) {
	switch {
	case event.Op.Has(fsnotify.Write), event.Op.Has(fsnotify.Create):
		if _, err := os.Stat(w.path); err != nil {
			w.logger.Warnf("cookies 文件更新后不可读: %v", err)
			return
		}
		w.logger.Infof("cookies 文件已更新，后续提取使用新凭据: %s", w.path)
	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		w.logger.Warnf("cookies 文件被移除: %s，后续提取将不带凭据", w.path)
	}
}
