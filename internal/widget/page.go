package widget

import (
	"context"
	"sync"

	"github.com/telnet2/go-practice/go-boatbus/pkg/types"
)

// Page hosts one instance of every boat widget under a shared page context.
type Page struct {
	env Env

	Search  *BoatSearch
	Results *BoatSearchResults
	Map     *BoatMap
	Tabs    *BoatDetailTabs
	NearMe  *BoatsNearMe

	mu        sync.Mutex
	connected bool
}

// NewPage creates a page and its widgets. Nothing is subscribed until Connect.
func NewPage(env Env) (*Page, error) {
	if err := env.validate(); err != nil {
		return nil, err
	}
	results := NewBoatSearchResults(env)
	return &Page{
		env:     env,
		Search:  NewBoatSearch(env, results),
		Results: results,
		Map:     NewBoatMap(env, ""),
		Tabs:    NewBoatDetailTabs(env),
		NearMe:  NewBoatsNearMe(env, ""),
	}, nil
}

// Context returns the page context used for narrow publishes.
func (p *Page) Context() string {
	return p.env.Context
}

// Env returns the page environment.
func (p *Page) Env() Env {
	return p.env
}

func (p *Page) widgets() []Mountable {
	return []Mountable{p.Search, p.Results, p.Map, p.Tabs, p.NearMe}
}

// Connect mounts every widget, loads the boat types and runs the initial
// search. Connecting twice is a no-op.
func (p *Page) Connect(ctx context.Context) error {
	p.mu.Lock()
	if p.connected {
		p.mu.Unlock()
		return nil
	}
	p.connected = true
	p.mu.Unlock()

	for _, w := range p.widgets() {
		if err := w.Mount(); err != nil {
			p.Disconnect()
			return err
		}
	}

	// A missing type list still leaves a usable page
	formErr := p.Search.Form.Load(ctx)
	if err := p.Results.Search(ctx, ""); err != nil {
		return err
	}
	return formErr
}

// Disconnect unmounts every widget.
func (p *Page) Disconnect() {
	p.mu.Lock()
	p.connected = false
	p.mu.Unlock()

	for _, w := range p.widgets() {
		w.Unmount()
	}
}

// Connected reports whether the page is mounted.
func (p *Page) Connected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connected
}

// PageState is a snapshot of what the page shows.
type PageState struct {
	Context        string             `json:"context"`
	Connected      bool               `json:"connected"`
	Loading        bool               `json:"loading"`
	SearchOptions  []SearchOption     `json:"searchOptions"`
	BoatTypeID     string             `json:"boatTypeId"`
	Boats          []types.Boat       `json:"boats"`
	SelectedBoatID string             `json:"selectedBoatId,omitempty"`
	MapMarkers     []MapMarker        `json:"mapMarkers"`
	ActiveTab      string             `json:"activeTab"`
	BoatName       string             `json:"boatName,omitempty"`
	Reviews        []types.BoatReview `json:"reviews"`
	SimilarTitle   string             `json:"similarTitle"`
	SimilarBoats   []types.Boat       `json:"similarBoats"`
	NearbyMarkers  []MapMarker        `json:"nearbyMarkers"`
}

// State returns a snapshot of every widget.
func (p *Page) State() PageState {
	return PageState{
		Context:        p.env.Context,
		Connected:      p.Connected(),
		Loading:        p.Search.IsLoading(),
		SearchOptions:  p.Search.Form.Options(),
		BoatTypeID:     p.Results.BoatTypeID(),
		Boats:          p.Results.Boats(),
		SelectedBoatID: p.Results.SelectedBoatID(),
		MapMarkers:     p.Map.Markers(),
		ActiveTab:      p.Tabs.ActiveTab(),
		BoatName:       p.Tabs.BoatName(),
		Reviews:        p.Tabs.Reviews.Reviews(),
		SimilarTitle:   p.Tabs.Similar.Title(),
		SimilarBoats:   p.Tabs.Similar.Boats(),
		NearbyMarkers:  p.NearMe.Markers(),
	}
}
