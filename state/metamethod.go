package state

import "fmt"

/* metatable */

func (self *luaState) getMetatable(val any) *luaTable {
	switch v := val.(type) {
	case *luaTable:
		return v.metatable
	case *userdata:
		return v.metatable
	}
	key := fmt.Sprintf("_MT%d", typeOf(val))
	if mt := self.registry.get(key); mt != nil {
		return mt.(*luaTable)
	}
	return nil
}

// setMetatable installs mt on a table or userdata; for every other type it
// becomes the shared metatable of that type, the way the string library
// installs itself on all strings.
func (self *luaState) setMetatable(val any, mt *luaTable) {
	switch v := val.(type) {
	case *luaTable:
		v.metatable = mt
	case *userdata:
		v.metatable = mt
	default:
		key := fmt.Sprintf("_MT%d", typeOf(val))
		self.registry.put(key, mt)
	}
	if mt != nil && mt.get("__gc") != nil {
		self.scheduleFinalizer(val)
	}
}

func (self *luaState) getMetafield(val any, fieldName string) any {
	if mt := self.getMetatable(val); mt != nil {
		return mt.get(fieldName)
	}
	return nil
}

// callMetamethod resolves mmName on a then b and invokes it as mm(a, b).
func (self *luaState) callMetamethod(a, b any, mmName string) (any, bool) {
	var mm any
	if mm = self.getMetafield(a, mmName); mm == nil {
		if mm = self.getMetafield(b, mmName); mm == nil {
			return nil, false
		}
	}
	results := self.call(mm, []any{a, b}, mmName)
	return first(results), true
}

func first(values []any) any {
	if len(values) == 0 {
		return nil
	}
	return values[0]
}
