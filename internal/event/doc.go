/*
Package event provides the pub/sub bus that keeps widgets such as the search
results, the map and the detail tabs in agreement about the selected boat.

# Architecture

The bus has four parts:

  - Registry: the table of live subscribers per channel, in registration order.
  - Subscription: the handle returned to a subscriber; Cancel is idempotent.
  - Bus: the publisher. It snapshots the subscribers of a channel and calls each
    one synchronously.
  - Admits: the scope filter deciding whether a subscriber sees a publication.

There is no package-level bus. A Bus is created at process start, passed to the
components that need it, and closed at shutdown.

# Channels and Messages

Every built-in channel has one message type:

  - boat.message: BoatMessage{RecordID, Boat}
  - boat.select: BoatSelect{RecordID}
  - boat.search.results: SearchResults{BoatTypeID, Boats}
  - boat.search.loading: LoadingChanged{Loading}
  - boat.review.created: ReviewCreated{BoatID, ReviewID}
  - boat.list.refreshed: BoatListRefreshed{Count}

Decode turns a JSON payload into the message type of its channel.

# Basic Usage

	bus := event.NewBus()
	defer bus.Close()

	sub, err := event.On(bus, event.Broad(), func(m event.BoatMessage) {
		log.Info().Str("recordId", m.RecordID).Msg("boat selected")
	})
	if err != nil {
		return err
	}
	defer sub.Cancel()

	bus.Publish(event.BoatMessage{RecordID: "a02aj000001UFR4AAO"})

# Scopes

A subscription is registered for an Audience. Broad subscribers receive every
publication. Narrow subscribers receive only narrow publications from the same
context:

	bus.Subscribe(event.LoadingChannel, event.Narrow(pageID), onLoading)
	bus.PublishFrom(event.Narrow(pageID), event.LoadingChanged{Loading: true})

# Delivery

Delivery is synchronous and ordered by registration. A callback that panics is
recovered, reported as a *DeliveryFault to the fault handler and the log, and
the remaining subscribers still run. A publish made while a delivery pass is in
progress is queued and delivered once that pass completes.

# Mirror

Mirror forwards bus messages to a watermill gochannel, one topic per channel.
The HTTP server reads from it for SSE and WebSocket clients.
*/
package event
