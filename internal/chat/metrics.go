package chat

import "github.com/prometheus/client_golang/prometheus"

var (
	ConnectedClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "chat_connected_clients",
		Help: "Number of currently connected clients",
	})

	RoomsTotal = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "chat_rooms",
		Help: "Number of rooms created since start",
	})

	MessagesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_messages_total",
		Help: "Total inbound lines processed by command kind",
	}, []string{"kind"})

	ProtocolErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chat_protocol_errors_total",
		Help: "Inbound lines rejected as malformed commands",
	})

	LaggedMessagesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chat_lagged_messages_total",
		Help: "Broadcast messages skipped by slow receivers",
	})

	CommandDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "chat_command_seconds",
		Help:    "Time to handle each command kind",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
)

func init() {
	prometheus.MustRegister(ConnectedClients)
	prometheus.MustRegister(RoomsTotal)
	prometheus.MustRegister(MessagesTotal)
	prometheus.MustRegister(ProtocolErrorsTotal)
	prometheus.MustRegister(LaggedMessagesTotal)
	prometheus.MustRegister(CommandDuration)
}
