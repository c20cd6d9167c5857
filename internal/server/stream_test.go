package server_test

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/telnet2/go-practice/go-boatbus/internal/event"
	"github.com/telnet2/go-practice/go-boatbus/internal/server"
	"github.com/telnet2/go-practice/go-boatbus/internal/sseclient"
)

func publish(baseURL, channel, payload string) *http.Response {
	resp, err := http.Post(baseURL+"/publish/"+channel, "application/json", strings.NewReader(payload))
	Expect(err).NotTo(HaveOccurred())
	resp.Body.Close()
	return resp
}

var _ = Describe("Event streaming", func() {
	var ts *testServer

	BeforeEach(func() {
		ts = startTestServer(server.DefaultConfig())
	})

	AfterEach(func() {
		ts.Stop()
	})

	Describe("GET /event", func() {
		var client *sseclient.Client

		BeforeEach(func() {
			client = sseclient.New(ts.BaseURL)
		})

		AfterEach(func() {
			client.Close()
		})

		It("should announce the streamed channels first", func() {
			Expect(client.Connect(ctx, "/event?channels=boat.message")).To(Succeed())

			evt, err := client.WaitForEvent(server.ConnectedEvent, waitTimeout)
			Expect(err).NotTo(HaveOccurred())

			var connected struct {
				Channels []event.Channel `json:"channels"`
			}
			Expect(json.Unmarshal(evt.Data, &connected)).To(Succeed())
			Expect(connected.Channels).To(Equal([]event.Channel{event.BoatMessageChannel}))
		})

		It("should stream published messages", func() {
			Expect(client.Connect(ctx, "/event")).To(Succeed())
			_, err := client.WaitForEvent(server.ConnectedEvent, waitTimeout)
			Expect(err).NotTo(HaveOccurred())

			Expect(publish(ts.BaseURL, "boat.message", `{"recordId":"b1"}`).StatusCode).To(Equal(http.StatusAccepted))

			evt, err := client.WaitForEvent("boat.message", waitTimeout)
			Expect(err).NotTo(HaveOccurred())

			var streamed server.StreamEvent
			Expect(json.Unmarshal(evt.Data, &streamed)).To(Succeed())
			Expect(streamed.Channel).To(Equal(event.BoatMessageChannel))
			Expect(string(streamed.Payload)).To(MatchJSON(`{"recordId":"b1"}`))
		})

		It("should only stream channels matching the filter", func() {
			Expect(client.Connect(ctx, "/event?channels=boat.review.*")).To(Succeed())
			_, err := client.WaitForEvent(server.ConnectedEvent, waitTimeout)
			Expect(err).NotTo(HaveOccurred())

			publish(ts.BaseURL, "boat.message", `{"recordId":"b1"}`)
			publish(ts.BaseURL, "boat.review.created", `{"boatId":"b1","reviewId":"r9"}`)

			evt, err := client.WaitForEvent("boat.review.created", waitTimeout)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(evt.Data)).To(ContainSubstring(`"reviewId":"r9"`))
			Expect(client.CountEventType("boat.message")).To(BeZero())
		})

		It("should stream what the hosted page publishes", func() {
			Expect(client.Connect(ctx, "/event?channels=boat.search.*")).To(Succeed())
			_, err := client.WaitForEvent(server.ConnectedEvent, waitTimeout)
			Expect(err).NotTo(HaveOccurred())

			req, err := http.NewRequest(http.MethodPatch, ts.BaseURL+"/boats", strings.NewReader(`[{"id":"b3","price":450}]`))
			Expect(err).NotTo(HaveOccurred())
			resp, err := http.DefaultClient.Do(req)
			Expect(err).NotTo(HaveOccurred())
			resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			_, err = client.WaitForEvent("boat.search.results", waitTimeout)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should reject filters matching nothing", func() {
			err := client.Connect(ctx, "/event?channels=weather.*")
			Expect(err).To(MatchError(ContainSubstring("400")))
		})
	})

	Describe("GET /ws", func() {
		var conn *websocket.Conn

		dial := func(query string) {
			url := "ws" + strings.TrimPrefix(ts.BaseURL, "http") + "/ws" + query
			var err error
			conn, _, err = websocket.DefaultDialer.Dial(url, nil)
			Expect(err).NotTo(HaveOccurred())

			var hello server.WSMessage
			Expect(conn.ReadJSON(&hello)).To(Succeed())
			Expect(hello.Type).To(Equal(server.WSTypeConnected))
			Expect(hello.ClientID).NotTo(BeEmpty())
		}

		// readUntil collects messages until one satisfies done.
		readUntil := func(done func([]server.WSMessage) bool) []server.WSMessage {
			var got []server.WSMessage
			for !done(got) {
				var msg server.WSMessage
				Expect(conn.ReadJSON(&msg)).To(Succeed())
				got = append(got, msg)
			}
			return got
		}

		hasType := func(msgs []server.WSMessage, typ string, ch event.Channel) bool {
			for _, m := range msgs {
				if m.Type == typ && m.Channel == ch {
					return true
				}
			}
			return false
		}

		AfterEach(func() {
			if conn != nil {
				conn.Close()
				conn = nil
			}
		})

		It("should publish client messages and echo them back", func() {
			dial("?channels=boat.select")
			Expect(ts.Server.ClientCount()).To(Equal(1))

			Expect(conn.WriteJSON(server.WSRequest{
				Channel: event.BoatSelectChannel,
				Payload: json.RawMessage(`{"recordId":"b3"}`),
			})).To(Succeed())

			msgs := readUntil(func(got []server.WSMessage) bool {
				return hasType(got, server.WSTypeAck, event.BoatSelectChannel) &&
					hasType(got, server.WSTypeEvent, event.BoatSelectChannel)
			})
			for _, m := range msgs {
				if m.Type == server.WSTypeEvent {
					Expect(string(m.Payload)).To(MatchJSON(`{"recordId":"b3"}`))
				}
			}
		})

		It("should drive the hosted page", func() {
			dial("")

			Expect(conn.WriteJSON(server.WSRequest{
				Channel: event.BoatMessageChannel,
				Payload: json.RawMessage(`{"recordId":"b2"}`),
			})).To(Succeed())
			readUntil(func(got []server.WSMessage) bool {
				return hasType(got, server.WSTypeAck, event.BoatMessageChannel)
			})

			Eventually(func() string { return ts.Server.Page().State().BoatName }).Should(Equal("Wind Dancer"))
		})

		It("should report bad publishes without dropping the connection", func() {
			dial("?channels=boat.message")

			Expect(conn.WriteJSON(server.WSRequest{Channel: "boat.unknown", Payload: json.RawMessage(`{}`)})).To(Succeed())
			var msg server.WSMessage
			Expect(conn.ReadJSON(&msg)).To(Succeed())
			Expect(msg.Type).To(Equal(server.WSTypeError))
			Expect(msg.Error).To(ContainSubstring("unknown channel"))

			Expect(conn.WriteJSON(server.WSRequest{Channel: event.BoatMessageChannel, Payload: json.RawMessage(`{"recordId":"b1"}`)})).To(Succeed())
			readUntil(func(got []server.WSMessage) bool {
				return hasType(got, server.WSTypeEvent, event.BoatMessageChannel)
			})
		})

		It("should forget clients that disconnect", func() {
			dial("")
			Expect(ts.Server.ClientCount()).To(Equal(1))

			conn.Close()
			conn = nil
			Eventually(ts.Server.ClientCount).Should(BeZero())
		})
	})
})
