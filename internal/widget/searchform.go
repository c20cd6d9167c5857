package widget

import (
	"context"
	"sync"
)

// AllTypesLabel is the option that clears the type filter.
const AllTypesLabel = "All Types"

const errLoadingBoatTypes = "Error loading boat types"

// SearchOption is one entry of the boat type picker.
type SearchOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// BoatSearchForm lets the user pick a boat type to search for.
type BoatSearchForm struct {
	env Env

	mu       sync.Mutex
	options  []SearchOption
	selected string
	err      error

	// OnSearch is called with the selected boat type ID.
	OnSearch func(boatTypeID string)
}

// NewBoatSearchForm creates a search form.
func NewBoatSearchForm(env Env) *BoatSearchForm {
	return &BoatSearchForm{env: env}
}

// Load fetches the boat types. The options always start with All Types.
func (f *BoatSearchForm) Load(ctx context.Context) error {
	boatTypes, err := f.env.Data.GetBoatTypes(ctx)

	f.mu.Lock()
	f.err = err
	f.options = []SearchOption{{Label: AllTypesLabel, Value: ""}}
	for _, bt := range boatTypes {
		f.options = append(f.options, SearchOption{Label: bt.Name, Value: bt.ID})
	}
	f.mu.Unlock()

	if err != nil {
		f.env.toastError(errLoadingBoatTypes, err)
	}
	return err
}

// Options returns the picker entries.
func (f *BoatSearchForm) Options() []SearchOption {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]SearchOption(nil), f.options...)
}

// SelectedBoatTypeID returns the current selection, empty for all types.
func (f *BoatSearchForm) SelectedBoatTypeID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selected
}

// Err returns the last load error.
func (f *BoatSearchForm) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Select changes the selection and fires OnSearch.
func (f *BoatSearchForm) Select(boatTypeID string) {
	f.mu.Lock()
	f.selected = boatTypeID
	onSearch := f.OnSearch
	f.mu.Unlock()

	if onSearch != nil {
		onSearch(boatTypeID)
	}
}
