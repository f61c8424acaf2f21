package artifact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Kind validation ---

func TestValidateKind_AllKnownKinds(t *testing.T) {
	for _, k := range Kinds {
		assert.NoError(t, ValidateKind(k), "kind %s", k)
	}
}

func TestValidateKind_Unknown(t *testing.T) {
	err := ValidateKind(Kind("widget"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "widget")
}

func TestDisplayName_Known(t *testing.T) {
	assert.Equal(t, "Read Model", DisplayName(KindReadModel))
	assert.Equal(t, "Acceptance Scenario", DisplayName(KindScenario))
}

func TestDisplayName_UnknownFallsBackToRaw(t *testing.T) {
	assert.Equal(t, "widget", DisplayName(Kind("widget")))
}

// --- Field registry ---

func TestFieldSet_EveryKindHasFields(t *testing.T) {
	for _, k := range Kinds {
		fields, err := FieldSet(k)
		require.NoError(t, err, "kind %s", k)
		assert.NotEmpty(t, fields, "kind %s", k)
	}
}

func TestFieldSet_UnknownKind(t *testing.T) {
	_, err := FieldSet(Kind("widget"))
	assert.Error(t, err)
}

func TestFieldSet_ReturnsCopy(t *testing.T) {
	a, err := FieldSet(KindEpic)
	require.NoError(t, err)
	a[0] = "mutated"

	b, err := FieldSet(KindEpic)
	require.NoError(t, err)
	assert.Equal(t, "name", b[0])
}

func TestEditable(t *testing.T) {
	assert.True(t, Editable(KindCommand, "payload_fields"))
	assert.False(t, Editable(KindCommand, "given"))
	assert.False(t, Editable(KindCommand, "id"))
}

func TestValidateField_NotEditable(t *testing.T) {
	err := ValidateField(KindEpic, "payload_fields")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not editable")
}

// --- Identity resolution ---

func TestIdentity_PrefersID(t *testing.T) {
	a := Artifact{Kind: KindCommand, Fields: map[string]any{
		"id": "CMD-1", "name": "AddItem", "title": "Add Item",
	}}
	id, err := a.Identity()
	require.NoError(t, err)
	assert.Equal(t, "CMD-1", id)
}

func TestIdentity_FallsBackToName(t *testing.T) {
	a := Artifact{Kind: KindCommand, Fields: map[string]any{
		"name": "AddItem", "title": "Add Item",
	}}
	id, err := a.Identity()
	require.NoError(t, err)
	assert.Equal(t, "AddItem", id)
}

func TestIdentity_FallsBackToTitle(t *testing.T) {
	a := Artifact{Kind: KindChapter, Fields: map[string]any{"title": "Checkout"}}
	id, err := a.Identity()
	require.NoError(t, err)
	assert.Equal(t, "Checkout", id)
}

func TestIdentity_EmptyStringsSkipped(t *testing.T) {
	a := Artifact{Kind: KindChapter, Fields: map[string]any{
		"id": "", "name": "Checkout",
	}}
	id, err := a.Identity()
	require.NoError(t, err)
	assert.Equal(t, "Checkout", id)
}

func TestIdentity_NoneAvailable(t *testing.T) {
	a := Artifact{Kind: KindChapter, Fields: map[string]any{"description": "x"}}
	_, err := a.Identity()
	assert.Error(t, err)
}

func TestCloneFields_Independent(t *testing.T) {
	a := Artifact{Kind: KindEpic, Fields: map[string]any{"name": "Billing"}}
	clone := a.CloneFields()
	clone["name"] = "Shipping"
	assert.Equal(t, "Billing", a.Fields["name"])
}

// --- Change ---

func TestChangeKey(t *testing.T) {
	c := Change{Kind: KindStory, ArtifactID: "browse-items", Field: "description"}
	assert.Equal(t, "story/browse-items/description", c.Key())
}

func TestValidateCascade_Valid(t *testing.T) {
	c := Change{
		Kind: KindStory, ArtifactID: "browse-items", Field: "description",
		OldValue: "old", NewValue: "new",
		Reason: "description references the renamed command",
	}
	assert.NoError(t, c.ValidateCascade())
}

func TestValidateCascade_MissingReason(t *testing.T) {
	c := Change{Kind: KindStory, ArtifactID: "browse-items", Field: "description"}
	err := c.ValidateCascade()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reason")
}

func TestValidateCascade_FieldNotOnTargetKind(t *testing.T) {
	c := Change{Kind: KindEpic, ArtifactID: "billing", Field: "payload_fields", Reason: "x"}
	assert.Error(t, c.ValidateCascade())
}

func TestValidateCascade_MissingArtifactID(t *testing.T) {
	c := Change{Kind: KindEpic, Field: "name", Reason: "x"}
	assert.Error(t, c.ValidateCascade())
}
