package directory

import "testing"

func testDirectory() Directory {
	return Directory{
		Creators: []Creator{
			{UserAddress: "creator-alice", Username: "alice", Name: "Alice"},
			{UserAddress: "creator-bob", Username: "bob", Name: "Bob"},
		},
		Supporters: []Supporter{
			{UserAddress: "supporter-carol", Name: "Carol"},
		},
		Messages: []Message{
			{CreatorAddress: "creator-alice", SupporterAddress: "supporter-carol", Message: "first", Amount: 1_000_000_000},
			{CreatorAddress: "creator-bob", SupporterAddress: "supporter-carol", Message: "for bob", Amount: 500_000_000},
			{CreatorAddress: "creator-alice", SupporterAddress: "unknown-addr", Message: "second", Amount: 250_000_000},
			{CreatorAddress: "creator-alice", SupporterAddress: "supporter-carol", Message: "third", Amount: 2_000_000_000},
		},
	}
}

func loadedCache() *Cache {
	c := NewCache()
	c.Replace(testDirectory())
	return c
}

func TestFindCreatorIndexByUsername(t *testing.T) {
	c := loadedCache()

	if i := c.FindCreatorIndexByUsername("bob"); i != 1 {
		t.Errorf("index for bob = %d, want 1", i)
	}
	if i := c.FindCreatorIndexByUsername("nobody"); i != -1 {
		t.Errorf("index for unknown = %d, want -1", i)
	}
	// exact match only, no prefix or fuzzy matching
	if i := c.FindCreatorIndexByUsername("ali"); i != -1 {
		t.Errorf("prefix query matched, index = %d", i)
	}
	if i := c.FindCreatorIndexByUsername("Alice"); i != -1 {
		t.Errorf("case-differing query matched, index = %d", i)
	}
}

func TestRoleOf(t *testing.T) {
	c := loadedCache()

	if r := c.RoleOf("creator-alice"); r != RoleCreator {
		t.Errorf("RoleOf(creator) = %v, want creator", r)
	}
	if r := c.RoleOf("supporter-carol"); r != RoleSupporter {
		t.Errorf("RoleOf(supporter) = %v, want supporter", r)
	}
	if r := c.RoleOf("unknown-addr"); r != RoleNone {
		t.Errorf("RoleOf(unknown) = %v, want none", r)
	}
}

func TestDisplayNameOf(t *testing.T) {
	c := loadedCache()

	if got := c.DisplayNameOf("creator-bob"); got != "Bob" {
		t.Errorf("DisplayNameOf(creator) = %q, want Bob", got)
	}
	if got := c.DisplayNameOf("supporter-carol"); got != "Carol" {
		t.Errorf("DisplayNameOf(supporter) = %q, want Carol", got)
	}
	// unknown parties fall back to the raw address string
	if got := c.DisplayNameOf("unknown-addr"); got != "unknown-addr" {
		t.Errorf("DisplayNameOf(unknown) = %q, want the address", got)
	}
}

func TestMessagesForPreservesOrder(t *testing.T) {
	c := loadedCache()

	msgs := c.MessagesFor("creator-alice")
	if len(msgs) != 3 {
		t.Fatalf("MessagesFor returned %d messages, want 3", len(msgs))
	}
	want := []string{"first", "second", "third"}
	for i, w := range want {
		if msgs[i].Message != w {
			t.Errorf("message %d = %q, want %q", i, msgs[i].Message, w)
		}
	}
}

func TestMessagesForUnknownCreator(t *testing.T) {
	c := loadedCache()
	if msgs := c.MessagesFor("no-such-creator"); len(msgs) != 0 {
		t.Errorf("expected no messages, got %d", len(msgs))
	}
}

func TestReplaceBumpsVersion(t *testing.T) {
	c := NewCache()
	if c.Loaded() {
		t.Fatal("fresh cache should not be loaded")
	}

	c.Replace(testDirectory())
	if !c.Loaded() {
		t.Fatal("cache should be loaded after Replace")
	}
	v1 := c.Version()

	c.Replace(Directory{})
	if c.Version() <= v1 {
		t.Errorf("version did not advance: %d -> %d", v1, c.Version())
	}
	if len(c.Creators()) != 0 {
		t.Error("snapshot should be replaced wholesale")
	}
}

func TestAdvisoryChecks(t *testing.T) {
	c := loadedCache()

	if !c.UsernameTaken("alice") {
		t.Error("alice should be taken")
	}
	if c.UsernameTaken("dave") {
		t.Error("dave should be free")
	}
	if !c.HasCreatorAccount("creator-alice") {
		t.Error("creator-alice owns a creator record")
	}
	if c.HasCreatorAccount("supporter-carol") {
		t.Error("supporter-carol owns no creator record")
	}
}

func TestCreatorIndexBounds(t *testing.T) {
	c := loadedCache()

	if _, ok := c.Creator(0); !ok {
		t.Error("index 0 should exist")
	}
	if _, ok := c.Creator(-1); ok {
		t.Error("negative index should not resolve")
	}
	if _, ok := c.Creator(99); ok {
		t.Error("out-of-range index should not resolve")
	}
}
