package navfakes

import "sync"

// FakeNavigator records navigations for assertions and lets tests pin the
// current route.
type FakeNavigator struct {
	mu       sync.Mutex
	current  string
	Pushed   []string
	Replaced []string
}

func New(currentRoute string) *FakeNavigator {
	return &FakeNavigator{current: currentRoute}
}

func (f *FakeNavigator) CurrentRoute() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

func (f *FakeNavigator) SetCurrentRoute(route string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = route
}

func (f *FakeNavigator) Push(route string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Pushed = append(f.Pushed, route)
	f.current = route
}

func (f *FakeNavigator) Replace(route string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Replaced = append(f.Replaced, route)
	f.current = route
}
