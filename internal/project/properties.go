package project

import "fmt"

// Well-known property namespaces and keys. All engine-owned project settings
// live under a single plugin namespace; published metadata lives under the
// WMS namespace.
const (
	// Namespace holds the engine's own project-scoped settings.
	Namespace = "Atlasgen"

	// NamespaceWMS holds published, WMS-facing project metadata.
	NamespaceWMS = "WMS"
)

// Keys under Namespace.
const (
	KeyTitle               = "Title"
	KeyShortName           = "ShortName"
	KeyAbstract            = "Abstract"
	KeyExtentLayer         = "ExtentLayer"
	KeyExtentMargin        = "ExtentMargin"
	KeyVariableSourceLayer = "VariableSourceLayer"
)

// Keys under NamespaceWMS.
const (
	KeyWMSServiceTitle        = "WMSServiceTitle"
	KeyWMSRootName            = "WMSRootName"
	KeyWMSServiceAbstract     = "WMSServiceAbstract"
	KeyWMSExtent              = "WMSExtent"
	KeyWMSServiceCapabilities = "WMSServiceCapabilities"
)

// Per-layer custom property keys.
const (
	PropDatasourceActive  = "dynamicDatasourceActive"
	PropDatasourceContent = "dynamicDatasourceContent"
	PropNameTemplate      = "nameTemplate"
	PropTitleTemplate     = "titleTemplate"
	PropAbstractTemplate  = "abstractTemplate"
)

// Namespace under which the default view extent is persisted.
const (
	NamespaceMap         = "Map"
	KeyDefaultViewExtent = "DefaultViewExtent"
)

// PropertyValue is a typed project property: either a string or a string
// list. The tag travels with the value so the storage layer can round-trip
// both shapes.
type PropertyValue struct {
	str    string
	list   []string
	isList bool
}

// StringValue returns a string-typed property value.
func StringValue(s string) PropertyValue {
	return PropertyValue{str: s}
}

// ListValue returns a list-typed property value.
func ListValue(items []string) PropertyValue {
	cp := make([]string, len(items))
	copy(cp, items)
	return PropertyValue{list: cp, isList: true}
}

// IsList reports whether the value is list-typed.
func (v PropertyValue) IsList() bool {
	return v.isList
}

// String returns the scalar form. List values render as their first element
// to mirror legacy single-value reads of list entries.
func (v PropertyValue) String() string {
	if v.isList {
		if len(v.list) == 0 {
			return ""
		}
		return v.list[0]
	}
	return v.str
}

// List returns the list form. Scalar values return a single-element list.
func (v PropertyValue) List() []string {
	if v.isList {
		cp := make([]string, len(v.list))
		copy(cp, v.list)
		return cp
	}
	if v.str == "" {
		return nil
	}
	return []string{v.str}
}

// MarshalYAML implements yaml.Marshaler.
func (v PropertyValue) MarshalYAML() (any, error) {
	if v.isList {
		return v.list, nil
	}
	return v.str, nil
}

// UnmarshalYAML implements yaml.Unmarshaler via the node-free interface.
func (v *PropertyValue) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err == nil {
		*v = StringValue(s)
		return nil
	}
	var list []string
	if err := unmarshal(&list); err == nil {
		*v = ListValue(list)
		return nil
	}
	return fmt.Errorf("property value must be a string or a string list")
}

// PropertyBag is the project's hierarchically-scoped property store:
// namespace -> key -> value.
type PropertyBag map[string]map[string]PropertyValue

func (b PropertyBag) get(ns, key string) (PropertyValue, bool) {
	keys, ok := b[ns]
	if !ok {
		return PropertyValue{}, false
	}
	v, ok := keys[key]
	return v, ok
}

func (b PropertyBag) set(ns, key string, v PropertyValue) {
	keys, ok := b[ns]
	if !ok {
		keys = make(map[string]PropertyValue)
		b[ns] = keys
	}
	keys[key] = v
}
