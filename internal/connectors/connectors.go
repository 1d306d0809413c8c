// Package connectors pulls supplier price-list emails out of mailboxes
// and into the local store, where the processing pipeline picks them up.
package connectors

import "restocompras/internal"

// MailConnector fetches unread messages from a mailbox label. A non-empty
// senders list narrows the fetch to those addresses on the server side;
// the fetch service still re-checks senders on what comes back.
type MailConnector interface {
	FetchInbox(label string, max int, senders []string) ([]internal.FetchedMailMessage, error)
}
