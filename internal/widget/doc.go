// Package widget implements the boat rental widgets as view-models: each one
// holds what its view shows and reacts to the event bus while mounted.
//
// Widgets never call each other to share a selection. A tile publishes the
// selected boat on the boat.message channel and every mounted map, detail tab
// set and results list picks it up on its own. Results and loading state are
// published narrowly to the page context, so two pages on one bus do not see
// each other's searches.
//
//	bus := event.NewBus()
//	defer bus.Close()
//
//	page, err := widget.NewPage(widget.NewEnv(bus, store))
//	if err != nil {
//	    return err
//	}
//	if err := page.Connect(ctx); err != nil {
//	    return err
//	}
//	defer page.Disconnect()
//
//	page.Results.Tiles()[0].SelectBoat()
//	fmt.Println(page.Tabs.BoatName(), page.Map.Markers())
package widget
