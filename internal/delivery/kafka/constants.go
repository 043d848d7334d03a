package kafka

const (
	TopicTicketRedeemed    = "ticket.redeemed"
	TopicTicketInvalidated = "ticket.invalidated"
	TopicTicketReverted    = "ticket.reverted"

	TopicBundleRedeemed = "bundle.redeemed"
	TopicBundleReverted = "bundle.reverted"
)
