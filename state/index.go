package state

// __index chains longer than this raise instead of looping.
const maxIndexChain = 100

// index implements t[k] with full __index dispatch (§ 2.4 of the manual).
func (self *luaState) index(t, k any, line int) any {
	for depth := 0; depth < maxIndexChain; depth++ {
		if tbl, ok := t.(*luaTable); ok {
			if v := tbl.get(k); v != nil {
				return v
			}
			mf := self.getMetafield(tbl, "__index")
			if mf == nil {
				return nil
			}
			if next, ok := mf.(*luaTable); ok {
				t = next
				continue
			}
			return first(self.call(mf, []any{t, k}, "__index"))
		}

		mf := self.getMetafield(t, "__index")
		if mf == nil {
			self.rtError(line, "attempt to index a %s value", typeName(t))
		}
		if next, ok := mf.(*luaTable); ok {
			t = next
			continue
		}
		return first(self.call(mf, []any{t, k}, "__index"))
	}
	self.rtError(line, "'__index' chain too long; possible loop")
	return nil
}

// setIndex implements t[k] = v. __newindex fires only when k is absent
// from t; writing nil removes the key without consulting it.
func (self *luaState) setIndex(t, k, v any, line int) {
	for depth := 0; depth < maxIndexChain; depth++ {
		if tbl, ok := t.(*luaTable); ok {
			if tbl.get(k) != nil || !tbl.hasMetafield("__newindex") {
				if msg := tbl.put(k, v); msg != "" {
					self.rtError(line, "%s", msg)
				}
				return
			}
			mf := self.getMetafield(tbl, "__newindex")
			if next, ok := mf.(*luaTable); ok {
				t = next
				continue
			}
			self.call(mf, []any{t, k, v}, "__newindex")
			return
		}

		mf := self.getMetafield(t, "__newindex")
		if mf == nil {
			self.rtError(line, "attempt to index a %s value", typeName(t))
		}
		if next, ok := mf.(*luaTable); ok {
			t = next
			continue
		}
		self.call(mf, []any{t, k, v}, "__newindex")
		return
	}
	self.rtError(line, "'__newindex' chain too long; possible loop")
}

// length implements #v: byte length for strings, __len then border for
// tables.
func (self *luaState) length(v any, line int) any {
	if s, ok := v.(string); ok {
		return int64(len(s))
	}
	if mf := self.getMetafield(v, "__len"); mf != nil {
		return first(self.call(mf, []any{v}, "__len"))
	}
	if t, ok := v.(*luaTable); ok {
		return int64(t.len())
	}
	self.rtError(line, "attempt to get length of a %s value", typeName(v))
	return nil
}

// toStringMeta is tostring: __tostring wins, then __name decorates the
// default rendering.
func (self *luaState) toStringMeta(v any) (s string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = asRuntimeError(r)
		}
	}()

	if mf := self.getMetafield(v, "__tostring"); mf != nil {
		r := first(self.call(mf, []any{v}, "__tostring"))
		rs, ok := r.(string)
		if !ok {
			self.rtError(0, "'__tostring' must return a string")
		}
		return rs, nil
	}
	if name, ok := self.getMetafield(v, "__name").(string); ok {
		switch v.(type) {
		case *luaTable, *userdata:
			return name + ": " + toString(v)[len(typeName(v))+2:], nil
		}
	}
	return toString(v), nil
}
