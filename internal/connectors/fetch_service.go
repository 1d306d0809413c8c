package connectors

import (
	"strings"

	"restocompras/internal/storage"
)

// FetchService pulls messages from a mailbox and stores the ones that
// came from a known supplier address. When no sender list is given it
// keeps everything and lets detection sort it out later.
type FetchService struct {
	db        *storage.DB
	connector MailConnector
	store     *MailStoreService
	senders   []string
}

type FetchResult struct {
	Fetched int
	Stored  int
	Ignored int
}

func NewFetchService(db *storage.DB, rawMailDir string, connector MailConnector, supplierSenders []string) *FetchService {
	return &FetchService{
		db:        db,
		connector: connector,
		store:     NewMailStoreService(db, rawMailDir),
		senders:   supplierSenders,
	}
}

func (s *FetchService) FetchAndStore(label string, max int) (FetchResult, error) {
	messages, err := s.connector.FetchInbox(label, max, s.senders)
	if err != nil {
		return FetchResult{}, err
	}

	result := FetchResult{Fetched: len(messages)}
	for _, msg := range messages {
		if !s.knownSender(msg.From) {
			result.Ignored++
			continue
		}
		if _, err := s.store.Store(msg); err != nil {
			return result, err
		}
		result.Stored++
	}

	return result, nil
}

func (s *FetchService) knownSender(from string) bool {
	if len(s.senders) == 0 {
		return true
	}
	from = strings.ToLower(from)
	for _, sender := range s.senders {
		if strings.Contains(from, strings.ToLower(sender)) {
			return true
		}
	}
	return false
}
