package models

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateBreedCode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "two words", in: "Brown Swiss", want: "BS"},
		{name: "three words uses first two", in: "red poll angus", want: "RP"},
		{name: "single word", in: "Holstein", want: "HO"},
		{name: "single letter padded", in: "x", want: "XX"},
		{name: "accented", in: "ñandú", want: "ÑA"},
		{name: "empty", in: "   ", want: "XX"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateBreedCode(tt.in))
		})
	}
}

func TestAgeGroup(t *testing.T) {
	assert.True(t, AgeGroup("Cow").IsKnown())
	assert.True(t, AgeGroup(" TORO ").IsKnown())
	assert.False(t, AgeGroup("dragon").IsKnown())

	assert.True(t, AgeGroupCow.CanProduce())
	assert.True(t, AgeGroupVaca.CanProduce())
	assert.False(t, AgeGroupBull.CanProduce())
	assert.False(t, AgeGroup("Toro").CanProduce())
	assert.False(t, AgeGroupSteer.CanProduce())
	assert.False(t, AgeGroupNovillo.CanProduce())

	assert.Len(t, AgeGroupLabels(), len(knownAgeGroups))
}

func TestNewPage(t *testing.T) {
	page := NewPage(PageRequest{Page: 2, Limit: 10}, []int{11, 12}, 25)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, 25, page.TotalItems)
	assert.Equal(t, 10, PageRequest{Page: 2, Limit: 10}.Offset())

	empty := NewPage[int](PageRequest{Page: 1, Limit: 10}, nil, 0)
	raw, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.JSONEq(t, `{"totalPages":0,"currentPage":1,"totalItems":0,"item":[]}`, string(raw))
}

func TestNewPage_TotalPagesAtLimits(t *testing.T) {
	assert.Equal(t, 1, NewPage[int](PageRequest{Page: 1, Limit: math.MaxInt}, nil, 3).TotalPages)
	assert.Equal(t, 2, NewPage[int](PageRequest{Page: 1, Limit: 2}, nil, 3).TotalPages)
	assert.Equal(t, 1, NewPage[int](PageRequest{Page: 1, Limit: 3}, nil, 3).TotalPages)
	assert.Equal(t, math.MaxInt/MaxLimit+1, NewPage[int](PageRequest{Page: 1, Limit: MaxLimit}, nil, math.MaxInt).TotalPages)
}

func TestParseLookup(t *testing.T) {
	byID := ParseLookup(" 42 ")
	assert.True(t, byID.ByID)
	assert.Equal(t, int64(42), byID.ID)
	assert.Equal(t, "42", byID.String())

	byName := ParseLookup("Lote Norte")
	assert.False(t, byName.ByID)
	assert.Equal(t, "Lote Norte", byName.Key)
	assert.Equal(t, "Lote Norte", byName.String())
}

func TestDate_UnmarshalJSON(t *testing.T) {
	var payload struct {
		When Date `json:"when"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"when":"2024-03-05"}`), &payload))
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), payload.When.Time)

	require.NoError(t, json.Unmarshal([]byte(`{"when":"2024-03-05T10:30:00Z"}`), &payload))
	assert.Equal(t, 10, payload.When.Hour())

	assert.Error(t, json.Unmarshal([]byte(`{"when":"05/03/2024"}`), &payload))
	assert.Error(t, json.Unmarshal([]byte(`{"when":20240305}`), &payload))
}

func TestCattleInput_ToModel(t *testing.T) {
	now := time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)
	weightKg := 250.456
	in := CattleInput{
		Number:     10,
		BreedID:    1,
		InitWeight: &weightKg,
		AgeGroup:   "Cow",
		Register:   "Juan Perez",
	}

	c := in.ToModel(now)
	assert.Equal(t, "250.46", c.InitWeight.String())
	assert.True(t, c.QuarterlyWeight.Equal(c.InitWeight))
	assert.Equal(t, AgeGroup("Cow"), c.AgeGroup)
	assert.Equal(t, now, c.RegisterDate)
	assert.Equal(t, now, c.CreatedAt)
	assert.Nil(t, c.LotID)

	raw, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"initWeight":250.46`)
	assert.NotContains(t, string(raw), "created_at")
	assert.NotContains(t, string(raw), "CreatedAt")
}

func TestBreedInput_ToModel(t *testing.T) {
	now := time.Now()

	b := BreedInput{Name: "Brown Swiss", Origin: "Switzerland", Production: "milk"}.ToModel(now)
	assert.Equal(t, "BS", b.Code)
	assert.True(t, b.IsEditable)

	locked := false
	b = BreedInput{Name: "Gyr", Origin: "India", Production: "milk", Code: "gy", IsEditable: &locked}.ToModel(now)
	assert.Equal(t, "GY", b.Code)
	assert.False(t, b.IsEditable)
}

func TestPatches_Changes(t *testing.T) {
	assert.True(t, CattlePatch{}.IsEmpty())
	assert.True(t, BreedPatch{}.IsEmpty())
	assert.True(t, LotPatch{}.IsEmpty())
	assert.True(t, ProductPatch{}.IsEmpty())

	group := "Vaca"
	changes := CattlePatch{AgeGroup: &group}.Changes()
	require.Len(t, changes, 1)
	assert.Equal(t, "age_group", changes[0].Column)
	assert.Equal(t, AgeGroup("Vaca"), changes[0].Value)

	changes = CattlePatch{LotID: ClearID()}.Changes()
	require.Len(t, changes, 1)
	assert.Equal(t, "lot_id", changes[0].Column)
	assert.Nil(t, changes[0].Value)

	changes = CattlePatch{LotID: SetID(4)}.Changes()
	require.Len(t, changes, 1)
	assert.Equal(t, int64(4), *changes[0].Value.(*int64))

	milk := 0.0
	changes = ProductPatch{TotalMilk: &milk}.Changes()
	require.Len(t, changes, 1)
	assert.Equal(t, "total_milk", changes[0].Column)
}

func TestHerdReport_Row(t *testing.T) {
	r := HerdReport{Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), ActiveCattle: 3, TotalMilk: 12.5}
	row := r.Row()
	require.Len(t, row, 8)
	assert.Equal(t, "2024-05-01", row[0])
	assert.Equal(t, 12.5, row[6])
}

func TestNonProducingAgeGroups(t *testing.T) {
	assert.ElementsMatch(t,
		[]AgeGroup{AgeGroupSteer, AgeGroupBull, AgeGroupNovillo, AgeGroupToro},
		NonProducingAgeGroups())
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in   string
		want CommandType
		args []string
	}{
		{"report", CommandReport, nil},
		{"/Report 2024-03-01", CommandReport, []string{"2024-03-01"}},
		{"lot North pasture", CommandLot, []string{"North", "pasture"}},
		{"CATTLE 101", CommandCattle, []string{"101"}},
		{"/help", CommandHelp, nil},
		{"eggs 120", CommandUnknown, []string{"120"}},
		{"   ", CommandUnknown, nil},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			cmd := ParseCommand(tt.in)
			assert.Equal(t, tt.want, cmd.Type)
			assert.Equal(t, tt.args, cmd.Args)
		})
	}
}

func TestInboundMessage_Body(t *testing.T) {
	assert.Equal(t, "report", InboundMessage{Text: &TextContent{Body: "report"}}.Body())
	assert.Equal(t, "help", InboundMessage{Interactive: &InteractiveContent{ButtonReply: &ReplyItem{ID: "help"}}}.Body())
	assert.Equal(t, "lot 2", InboundMessage{Interactive: &InteractiveContent{ListReply: &ReplyItem{ID: "lot 2"}}}.Body())
	assert.Empty(t, InboundMessage{Type: "image"}.Body())
}

func TestOptionalID_UnmarshalJSON(t *testing.T) {
	var absent CattlePatch
	require.NoError(t, json.Unmarshal([]byte(`{"number":5}`), &absent))
	assert.False(t, absent.LotID.Set)

	var cleared CattlePatch
	require.NoError(t, json.Unmarshal([]byte(`{"LotId":null}`), &cleared))
	assert.True(t, cleared.LotID.Cleared())
	assert.False(t, cleared.IsEmpty())

	var moved CattlePatch
	require.NoError(t, json.Unmarshal([]byte(`{"LotId":3}`), &moved))
	require.NotNil(t, moved.LotID.ID)
	assert.Equal(t, int64(3), *moved.LotID.ID)

	var bad CattlePatch
	err := json.Unmarshal([]byte(`{"LotId":"north"}`), &bad)
	var typeErr *json.UnmarshalTypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, "LotId", typeErr.Field)
}
