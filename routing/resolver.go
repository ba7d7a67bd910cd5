package routing

import (
	"strings"

	"github.com/BaSui01/synax/types"
)

// ModelSeparator splits the group id from the required model.
const ModelSeparator = "/"

// ModelID is a parsed model identifier.
type ModelID struct {
	GroupID       string
	RequiredModel string
}

// String rebuilds the identifier.
func (m ModelID) String() string {
	if m.RequiredModel == "" {
		return m.GroupID
	}
	return m.GroupID + ModelSeparator + m.RequiredModel
}

// ParseModelID splits id on the first separator only; the remainder is
// taken verbatim as the required model.
func ParseModelID(id string) ModelID {
	group, model, _ := strings.Cut(id, ModelSeparator)
	return ModelID{GroupID: group, RequiredModel: model}
}

// Resolve parses id and looks up its group. An unknown required model is not
// an error here.
func Resolve(id string, groups GroupSource) (*Group, ModelID, error) {
	mid := ParseModelID(id)
	g, ok := groups.Get(mid.GroupID)
	if !ok || g == nil {
		return nil, mid, types.Errorf(types.ErrGroupNotFound, "group %q not found", mid.GroupID)
	}
	return g, mid, nil
}
