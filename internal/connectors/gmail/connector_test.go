package gmail

import "testing"

func TestSenderQuery(t *testing.T) {
	cases := []struct {
		name    string
		senders []string
		want    string
	}{
		{name: "empty", senders: nil, want: ""},
		{name: "single", senders: []string{"listas@irlanda.example.com"}, want: "from:listas@irlanda.example.com"},
		{name: "multiple", senders: []string{"a@x.com", "b@y.com"}, want: "from:a@x.com OR from:b@y.com"},
		{name: "blank entries dropped", senders: []string{" ", "a@x.com"}, want: "from:a@x.com"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := senderQuery(tc.senders); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}
