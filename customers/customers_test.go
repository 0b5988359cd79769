package customers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBaseUsername(t *testing.T) {
	tests := []struct {
		first, last, want string
	}{
		{"Ada", "Lovelace", "adalovelace"},
		{"Jean-Luc", "O'Neil", "jeanluconeil"},
		{"Maximilian", "Featherstonehaugh", "maximilianfeathersto"},
		{"Zoë", "Ünal", "zoëünal"},
	}
	for _, tt := range tests {
		t.Run(tt.first, func(t *testing.T) {
			require.Equal(t, tt.want, BaseUsername(tt.first, tt.last))
		})
	}
}

func TestNewCustomerID(t *testing.T) {
	id := NewCustomerID()
	require.Regexp(t, `^CUST_[0-9A-F]{8}$`, id)
	require.NotEqual(t, id, NewCustomerID())
}

func TestCreateRequest(t *testing.T) {
	req := &CreateRequest{FirstName: " Ada ", LastName: "Lovelace", Email: "ada@example.com", City: "London", Country: "UK"}
	require.NoError(t, req.Validate())

	c := req.Customer()
	require.Equal(t, "Ada", c.FirstName)
	require.Equal(t, "Ada Lovelace", c.FullName)
	require.Equal(t, "London, UK", c.FullAddress)
	require.True(t, c.IsActive)
	require.True(t, c.MarketingEmails)

	no := false
	req.MarketingEmails = &no
	require.False(t, req.Customer().MarketingEmails)

	require.Error(t, (&CreateRequest{FirstName: "A", LastName: "B", Email: "nope"}).Validate())
	require.Error(t, (&CreateRequest{FirstName: "A", LastName: "B", Email: "a@b.c", Gender: "robot"}).Validate())
}

func TestSearch_MatchesAndSorts(t *testing.T) {
	list := []*Customer{
		{ID: 1, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", City: "London", Tags: "vip, early", IsActive: true},
		{ID: 2, FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com", City: "Arlington", Tags: "navy", IsActive: true},
		{ID: 3, FirstName: "Alan", LastName: "Turing", Email: "alan@example.com", City: "London", IsActive: false},
	}

	active := true
	s := &Search{City: "london", IsActive: &active}
	require.True(t, s.Matches(list[0]))
	require.False(t, s.Matches(list[1]))
	require.False(t, s.Matches(list[2]))

	require.True(t, (&Search{Tags: "VIP"}).Matches(list[0]))
	require.False(t, (&Search{Tags: "vip,navy"}).Matches(list[0]))
	require.True(t, (&Search{Query: "HOP"}).Matches(list[1]))

	sorted := append([]*Customer(nil), list...)
	(&Search{}).Sort(sorted)
	require.Equal(t, int64(3), sorted[0].ID, "newest first by default")

	(&Search{SortBy: "last_name", SortOrder: "asc"}).Sort(sorted)
	require.Equal(t, []string{"Hopper", "Lovelace", "Turing"}, []string{sorted[0].LastName, sorted[1].LastName, sorted[2].LastName})
}

func TestNewPage(t *testing.T) {
	p := NewPage([]*Customer{{ID: 1}}, 25, 20, 10)
	require.Equal(t, 3, p.Page)
	require.Equal(t, 3, p.TotalPages)
	require.Len(t, p.Customers, 1)
}

func TestUpdateRequest_Apply(t *testing.T) {
	c := &Customer{FirstName: "Ada", LastName: "Lovelace", City: "London"}
	name := "Augusta"
	verified := true
	(&UpdateRequest{FirstName: &name, EmailVerified: &verified}).Apply(c)
	require.Equal(t, "Augusta Lovelace", c.FullName)
	require.Equal(t, "London", c.City)
	require.True(t, c.EmailVerified)
}
