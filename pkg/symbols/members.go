package symbols

type FieldSymbol struct {
	symbolBase
	typ   *TypeSymbol
	owner *TypeSymbol
	index int
}

func NewField(name string, typ, owner *TypeSymbol, index int) *FieldSymbol {
	return &FieldSymbol{symbolBase: newBase(name), typ: typ, owner: owner, index: index}
}

func (f *FieldSymbol) Kind() Kind                 { return KindField }
func (f *FieldSymbol) Type() *TypeSymbol          { return f.typ }
func (f *FieldSymbol) DeclaringType() *TypeSymbol { return f.owner }
func (f *FieldSymbol) Index() int                 { return f.index }

type MethodSymbol struct {
	symbolBase
	params     []*ParameterSymbol
	returnType *TypeSymbol
	owner      *TypeSymbol
}

func NewMethod(name string, params []*ParameterSymbol, returnType, owner *TypeSymbol) *MethodSymbol {
	return &MethodSymbol{symbolBase: newBase(name), params: params, returnType: returnType, owner: owner}
}

func (m *MethodSymbol) Kind() Kind                     { return KindMethod }
func (m *MethodSymbol) Parameters() []*ParameterSymbol { return m.params }
func (m *MethodSymbol) ReturnType() *TypeSymbol        { return m.returnType }
func (m *MethodSymbol) DeclaringType() *TypeSymbol     { return m.owner }

// PropertySymbol pairs a getter with an optional setter.
type PropertySymbol struct {
	symbolBase
	typ    *TypeSymbol
	owner  *TypeSymbol
	Getter *MethodSymbol
	Setter *MethodSymbol
}

// NewProperty creates the property together with its accessor methods,
// named <>Get_Name and <>Set_Name.
func NewProperty(name string, typ, owner *TypeSymbol, hasSetter bool) *PropertySymbol {
	p := &PropertySymbol{symbolBase: newBase(name), typ: typ, owner: owner}
	p.Getter = NewMethod("<>Get_"+name, nil, typ, owner)
	if hasSetter {
		value := NewParameter("value", typ, 0)
		p.Setter = NewMethod("<>Set_"+name, []*ParameterSymbol{value}, Void, owner)
	}
	return p
}

func (p *PropertySymbol) Kind() Kind                 { return KindProperty }
func (p *PropertySymbol) Type() *TypeSymbol          { return p.typ }
func (p *PropertySymbol) DeclaringType() *TypeSymbol { return p.owner }

type ConstructorSymbol struct {
	symbolBase
	params []*ParameterSymbol
	owner  *TypeSymbol
}

func NewConstructor(params []*ParameterSymbol, owner *TypeSymbol) *ConstructorSymbol {
	return &ConstructorSymbol{symbolBase: newBase(owner.Name()), params: params, owner: owner}
}

func (c *ConstructorSymbol) Kind() Kind                     { return KindConstructor }
func (c *ConstructorSymbol) Parameters() []*ParameterSymbol { return c.params }
func (c *ConstructorSymbol) ReturnType() *TypeSymbol        { return c.owner }
func (c *ConstructorSymbol) DeclaringType() *TypeSymbol     { return c.owner }
