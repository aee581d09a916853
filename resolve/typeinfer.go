package resolve

import (
	"strings"

	"github.com/roblourens/php-language-server/ast"
	"github.com/roblourens/php-language-server/docblock"
	"github.com/roblourens/php-language-server/fqn"
	"github.com/roblourens/php-language-server/symtype"
)

// TypeFromExpression implements type inference (§4.4) over an expression
// node: it always returns a Type, degrading to Mixed for anything it can't
// determine, a recursion depth it exceeds, or a cancelled Context.
func TypeFromExpression(rc *Context, node ast.Node) symtype.Type {
	return typeFromExpressionDepth(rc, node, 0)
}

func typeFromExpressionDepth(rc *Context, node ast.Node, depth int) symtype.Type {
	if rc.cancelled() || node == nil || depth > maxRecursionDepth {
		return symtype.NewMixed()
	}
	switch node.Kind() {
	case ast.Variable:
		return typeOfVariable(rc, node, depth)
	case ast.CallExpression:
		return typeOfCall(rc, node, depth)
	case ast.QualifiedName:
		return typeOfQualifiedName(rc, node)
	case ast.MemberAccessExpression:
		return typeOfMemberAccess(rc, node, depth, false)
	case ast.ScopedPropertyAccessExpression:
		return typeOfScopedAccess(rc, node, depth, false)
	case ast.ObjectCreationExpression:
		return typeOfObjectCreation(rc, node)
	case ast.CloneExpression:
		return typeFromExpressionDepth(rc, ast.Child(node, "expression"), depth+1)
	case ast.AssignmentExpression:
		return typeOfAssignment(rc, node, depth)
	case ast.TernaryExpression:
		return typeOfTernary(rc, node, depth)
	case ast.BinaryExpression:
		return typeOfBinary(rc, node, depth)
	case ast.UnaryOpExpression:
		return typeOfUnary(node)
	case ast.CastExpression:
		return typeOfCast(node)
	case ast.IssetIntrinsicExpression, ast.EmptyIntrinsicExpression:
		return symtype.NewBoolean()
	case ast.StringLiteral:
		return symtype.NewString()
	case ast.NumericLiteral:
		return typeOfNumericLiteral(node)
	case ast.ArrayLiteralExpression:
		return typeOfArrayLiteral(rc, node, depth)
	case ast.SubscriptExpression:
		return typeOfSubscript(rc, node, depth)
	default:
		return symtype.NewMixed()
	}
}

func typeOfVariable(rc *Context, node ast.Node, depth int) symtype.Type {
	if variableName(node) == "this" {
		return symtype.NewThis()
	}
	defNode, ok := ResolveVariable(node)
	if !ok {
		return symtype.NewMixed()
	}
	t, ok := typeFromNodeDepth(rc, defNode, depth+1)
	if !ok {
		return symtype.NewMixed()
	}
	return t
}

func typeOfCall(rc *Context, node ast.Node, depth int) symtype.Type {
	callee := ast.Child(node, "callee")
	if callee == nil {
		return symtype.NewMixed()
	}
	switch callee.Kind() {
	case ast.MemberAccessExpression:
		return typeOfMemberAccess(rc, callee, depth, true)
	case ast.ScopedPropertyAccessExpression:
		return typeOfScopedAccess(rc, callee, depth, true)
	case ast.QualifiedName:
		name, ok := referenceFromQualifiedName(callee, true)
		if !ok {
			return symtype.NewMixed()
		}
		return definitionType(rc, name, true)
	default:
		return symtype.NewMixed()
	}
}

// typeOfQualifiedName handles a bare name used as a value: the boolean
// literals `true`/`false` (matched case-insensitively on source text,
// since the AST contract has no dedicated boolean-literal kind) and,
// otherwise, a constant fetch looked up in the index with global fallback.
func typeOfQualifiedName(rc *Context, node ast.Node) symtype.Type {
	text := node.Text()
	if strings.EqualFold(text, "true") || strings.EqualFold(text, "false") {
		return symtype.NewBoolean()
	}
	name, ok := referenceFromConstantFetch(node)
	if !ok {
		return symtype.NewMixed()
	}
	return definitionType(rc, name, true)
}

func definitionType(rc *Context, f fqn.FQN, globalFallback bool) symtype.Type {
	idx := rc.index()
	if idx == nil {
		return symtype.NewMixed()
	}
	def, ok := idx.GetDefinition(f, globalFallback)
	if !ok {
		return symtype.NewMixed()
	}
	return def.Type
}

// typeOfMemberAccess implements the member-access type rule: for each
// component of the left-hand expression's type, build the member's FQN
// against that component's class and return the first one the index has a
// Definition for. Unlike the reference resolver's single-candidate walk,
// this tries every component before giving up, since a compound left-hand
// type may have only one member-bearing branch actually declare it.
func typeOfMemberAccess(rc *Context, node ast.Node, depth int, isCall bool) symtype.Type {
	object := ast.Child(node, "object")
	member := ast.Child(node, "member")
	if object == nil || member == nil {
		return symtype.NewMixed()
	}
	memberName := member.Text()
	lhsType := typeFromExpressionDepth(rc, object, depth+1)
	idx := rc.index()
	if idx == nil {
		return symtype.NewMixed()
	}
	for _, comp := range lhsType.Components() {
		classFqn, ok := classFqnFromTypeComponent(node, comp)
		if !ok {
			continue
		}
		f := resolveMemberChain(rc, classFqn, memberName, isCall, false)
		if def, ok := idx.GetDefinition(f, false); ok {
			return def.Type
		}
	}
	return symtype.NewMixed()
}

func typeOfScopedAccess(rc *Context, node ast.Node, depth int, isCall bool) symtype.Type {
	qualifier := ast.Child(node, "qualifier")
	member := ast.Child(node, "member")
	if qualifier == nil || member == nil {
		return symtype.NewMixed()
	}
	classFqn, ok := resolveScopeQualifier(rc, node, qualifier)
	if !ok {
		return symtype.NewMixed()
	}
	idx := rc.index()
	if idx == nil {
		return symtype.NewMixed()
	}
	isVariableMember := member.Kind() == ast.Variable
	memberName := member.Text()
	if isVariableMember {
		memberName = variableName(member)
	}
	f := resolveMemberChain(rc, classFqn, memberName, isCall, isVariableMember)
	if def, ok := idx.GetDefinition(f, false); ok {
		return def.Type
	}
	return symtype.NewMixed()
}

// typeOfObjectCreation implements "new C(...)" per §4.7.
func typeOfObjectCreation(rc *Context, node ast.Node) symtype.Type {
	className := ast.Child(node, "class")
	if className == nil {
		return symtype.NewMixed()
	}
	return ClassNameType(rc, className)
}

func typeOfAssignment(rc *Context, node ast.Node, depth int) symtype.Type {
	left := ast.Child(node, "left")
	right := ast.Child(node, "right")
	op := "="
	if opNode := ast.Child(node, "operator"); opNode != nil {
		op = opNode.Text()
	}
	switch op {
	case "=":
		return typeFromExpressionDepth(rc, right, depth+1)
	case "+=", "-=", "*=", "**=":
		return arithmeticResult(rc, left, right, depth)
	case ".=":
		return symtype.NewString()
	case "&=", "|=", "^=":
		return symtype.NewInteger()
	default:
		return typeFromExpressionDepth(rc, right, depth+1)
	}
}

func typeOfTernary(rc *Context, node ast.Node, depth int) symtype.Type {
	consequent := ast.Child(node, "consequent")
	alternative := ast.Child(node, "alternative")
	if consequent == nil {
		// `a ?: c` shorthand: the condition's own value is the true branch.
		condition := ast.Child(node, "condition")
		return symtype.NewCompound(
			typeFromExpressionDepth(rc, condition, depth+1),
			typeFromExpressionDepth(rc, alternative, depth+1),
		)
	}
	return symtype.NewCompound(
		typeFromExpressionDepth(rc, consequent, depth+1),
		typeFromExpressionDepth(rc, alternative, depth+1),
	)
}

func typeOfBinary(rc *Context, node ast.Node, depth int) symtype.Type {
	left := ast.Child(node, "left")
	right := ast.Child(node, "right")
	op := ""
	if opNode := ast.Child(node, "operator"); opNode != nil {
		op = opNode.Text()
	}
	switch op {
	case "??":
		return symtype.NewCompound(
			typeFromExpressionDepth(rc, left, depth+1),
			typeFromExpressionDepth(rc, right, depth+1),
		)
	case "&&", "||", "==", "!=", "===", "!==", "<", "<=", ">", ">=":
		return symtype.NewBoolean()
	case ".":
		return symtype.NewString()
	case "+", "-", "*", "**":
		return arithmeticResult(rc, left, right, depth)
	case "&", "|", "^", "<=>":
		return symtype.NewInteger()
	default:
		if strings.EqualFold(op, "instanceof") {
			return symtype.NewBoolean()
		}
		return symtype.NewMixed()
	}
}

// arithmeticResult implements the arithmetic rule: Integer only when both
// operands are Integer, Float otherwise.
func arithmeticResult(rc *Context, left, right ast.Node, depth int) symtype.Type {
	lt := typeFromExpressionDepth(rc, left, depth+1)
	rt := typeFromExpressionDepth(rc, right, depth+1)
	if lt.Kind() == symtype.Integer && rt.Kind() == symtype.Integer {
		return symtype.NewInteger()
	}
	return symtype.NewFloat()
}

func typeOfUnary(node ast.Node) symtype.Type {
	if opNode := ast.Child(node, "operator"); opNode != nil && opNode.Text() == "!" {
		return symtype.NewBoolean()
	}
	return symtype.NewMixed()
}

func typeOfCast(node ast.Node) symtype.Type {
	typeNode := ast.Child(node, "type")
	if typeNode == nil {
		return symtype.NewMixed()
	}
	switch strings.ToLower(typeNode.Text()) {
	case "bool", "boolean":
		return symtype.NewBoolean()
	case "int", "integer":
		return symtype.NewInteger()
	case "float", "double", "real":
		return symtype.NewFloat()
	case "string":
		return symtype.NewString()
	default:
		return symtype.NewMixed()
	}
}

func typeOfNumericLiteral(node ast.Node) symtype.Type {
	if looksLikeFloatLiteral(node.Text()) {
		return symtype.NewFloat()
	}
	return symtype.NewInteger()
}

func looksLikeFloatLiteral(text string) bool {
	if strings.ContainsRune(text, '.') {
		return true
	}
	lower := strings.ToLower(text)
	if strings.HasPrefix(lower, "0x") {
		return false // hex integer literal, "e" digits aren't an exponent
	}
	return strings.ContainsAny(lower, "e")
}

// typeOfArrayLiteral implements the array-literal rule: the value type is
// the union of every element's value expression type, the key type is the
// union of every explicit key expression type (an elided key contributes
// Integer, PHP's auto-increment key).
func typeOfArrayLiteral(rc *Context, node ast.Node, depth int) symtype.Type {
	elements := ast.Child(node, "elements")
	if elements == nil {
		return symtype.NewArray(nil, nil)
	}
	var valueTypes, keyTypes []symtype.Type
	for _, el := range elements.Children() {
		valueNode := ast.Child(el, "value")
		if valueNode == nil {
			valueNode = el
		}
		valueTypes = append(valueTypes, typeFromExpressionDepth(rc, valueNode, depth+1))
		if keyNode := ast.Child(el, "key"); keyNode != nil {
			keyTypes = append(keyTypes, typeFromExpressionDepth(rc, keyNode, depth+1))
		} else {
			keyTypes = append(keyTypes, symtype.NewInteger())
		}
	}
	return symtype.NewArray(unionOrNil(valueTypes), unionOrNil(keyTypes))
}

func unionOrNil(ts []symtype.Type) *symtype.Type {
	if len(ts) == 0 {
		return nil
	}
	t := symtype.NewCompound(ts...)
	return &t
}

func typeOfSubscript(rc *Context, node ast.Node, depth int) symtype.Type {
	base := ast.Child(node, "object")
	if base == nil {
		return symtype.NewMixed()
	}
	baseType := typeFromExpressionDepth(rc, base, depth+1)
	if baseType.Kind() != symtype.ArrayKind {
		return symtype.NewMixed()
	}
	if v := baseType.ArrayValue(); v != nil {
		return *v
	}
	return symtype.NewMixed()
}

// TypeFromNode implements the declaration-oriented half of type inference
// (§4.4): given the node that introduces a variable binding (a Parameter,
// a function/method declaration, a property/const element, or an
// assignment), compute its declared or inferred type. It returns
// (Type{}, false) for a node kind this rule doesn't cover.
func TypeFromNode(rc *Context, node ast.Node) (symtype.Type, bool) {
	return typeFromNodeDepth(rc, node, 0)
}

func typeFromNodeDepth(rc *Context, node ast.Node, depth int) (symtype.Type, bool) {
	if node == nil || rc.cancelled() || depth > maxRecursionDepth {
		return symtype.NewMixed(), false
	}
	switch node.Kind() {
	case ast.Parameter:
		return typeOfParameter(rc, node, depth), true
	case ast.FunctionDeclaration, ast.MethodDeclaration:
		return typeOfFunctionLike(rc, node), true
	case ast.PropertyElement, ast.ConstElement, ast.AssignmentExpression:
		return typeOfBoundDeclaration(rc, node, depth), true
	default:
		return symtype.Type{}, false
	}
}

// typeOfParameter implements the Parameter rule: a doc-comment @param tag
// wins outright; otherwise the syntactic type-hint and the default
// expression's type are each considered when present, and combined into a
// Compound when both exist and the hint names a different class than the
// default's inferred type; when only one of the two exists, it alone is
// used; with neither, the result is Mixed.
func typeOfParameter(rc *Context, node ast.Node, depth int) symtype.Type {
	name := parameterName(node)
	tags := docblock.Parse(node.DocComment())
	if tag, ok := docblock.FindParam(tags, name); ok {
		return typeFromTagText(node, tag.TypeText)
	}
	var hintType, defaultType *symtype.Type
	if hintNode := ast.Child(node, "type"); hintNode != nil {
		t := resolveTypeHint(rc, hintNode)
		hintType = &t
	}
	if defNode := ast.Child(node, "default"); defNode != nil {
		t := typeFromExpressionDepth(rc, defNode, depth+1)
		defaultType = &t
	}
	switch {
	case hintType != nil && defaultType != nil:
		if differentObjectClass(*hintType, *defaultType) {
			return symtype.NewCompound(*hintType, *defaultType)
		}
		return *hintType
	case hintType != nil:
		return *hintType
	case defaultType != nil:
		return *defaultType
	default:
		return symtype.NewMixed()
	}
}

// typeOfFunctionLike implements the Function/Method rule: a doc-comment
// @return tag wins, then the syntactic return-type hint; the function body
// is never inspected (see DESIGN.md's open-question decision on
// function-return inference).
func typeOfFunctionLike(rc *Context, node ast.Node) symtype.Type {
	tags := docblock.Parse(node.DocComment())
	if tag, ok := docblock.Find(tags, "return"); ok {
		return typeFromTagText(node, tag.TypeText)
	}
	if hint := ast.Child(node, "returnType"); hint != nil {
		return resolveTypeHint(rc, hint)
	}
	return symtype.NewMixed()
}

// typeOfBoundDeclaration implements the Property/Const/Assignment rule: a
// doc-comment @var tag wins, otherwise the bound right-hand expression's
// type.
func typeOfBoundDeclaration(rc *Context, node ast.Node, depth int) symtype.Type {
	tags := docblock.Parse(declaredDocComment(node))
	if tag, ok := docblock.Find(tags, "var"); ok {
		return typeFromTagText(node, tag.TypeText)
	}
	if rhs := boundExpression(node); rhs != nil {
		return typeFromExpressionDepth(rc, rhs, depth+1)
	}
	return symtype.NewMixed()
}

// declaredDocComment prefers node's own doc-comment, falling back to the
// enclosing declaration's for a property or const element, since a
// doc-comment conventionally attaches above the whole declaration line
// rather than each comma-separated element.
func declaredDocComment(node ast.Node) string {
	if dc := node.DocComment(); dc != "" {
		return dc
	}
	switch node.Kind() {
	case ast.PropertyElement:
		if decl := ast.Ancestor(node, ast.PropertyDeclaration); decl != nil {
			return decl.DocComment()
		}
	case ast.ConstElement:
		if decl := ast.Ancestor(node, ast.ConstDeclaration); decl != nil {
			return decl.DocComment()
		}
		if decl := ast.Ancestor(node, ast.ClassConstDeclaration); decl != nil {
			return decl.DocComment()
		}
	}
	return ""
}

func boundExpression(node ast.Node) ast.Node {
	switch node.Kind() {
	case ast.PropertyElement:
		if v := ast.Child(node, "value"); v != nil {
			return v
		}
		return ast.Child(node, "default")
	case ast.ConstElement:
		return ast.Child(node, "value")
	case ast.AssignmentExpression:
		return ast.Child(node, "right")
	default:
		return nil
	}
}

// differentObjectClass reports whether a and b are both Object types bound
// to distinct class names. Widening by default value only applies to
// class-typed hints: a scalar hint and a scalar default never widen.
func differentObjectClass(a, b symtype.Type) bool {
	if a.Kind() != symtype.ObjectKind || b.Kind() != symtype.ObjectKind {
		return false
	}
	af, aok := a.FQSEN()
	bf, bok := b.FQSEN()
	if !aok || !bok {
		return aok != bok
	}
	return af != bf
}

// resolveTypeHint resolves a syntactic type-hint node: a keyword maps to
// its primitive type, anything else is a class name resolved the same way
// a `new` or `instanceof` target is (§4.7).
func resolveTypeHint(rc *Context, hintNode ast.Node) symtype.Type {
	text := strings.TrimPrefix(hintNode.Text(), "?")
	switch strings.ToLower(text) {
	case "int", "integer":
		return symtype.NewInteger()
	case "float", "double":
		return symtype.NewFloat()
	case "string":
		return symtype.NewString()
	case "bool", "boolean":
		return symtype.NewBoolean()
	case "array":
		return symtype.NewArray(nil, nil)
	case "mixed", "":
		return symtype.NewMixed()
	default:
		return ClassNameType(rc, hintNode)
	}
}

// typeFromTagText parses a doc-comment type expression — a nullable marker
// and a "|"-separated union — into a Type, resolving each class-shaped
// member relative to node's enclosing class for "self"/"static"/"$this".
// The type algebra has no null variant, so a leading "?" is accepted and
// otherwise ignored rather than fabricated into a component.
func typeFromTagText(node ast.Node, typeText string) symtype.Type {
	typeText = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(typeText), "?"))
	if typeText == "" {
		return symtype.NewMixed()
	}
	parts := strings.Split(typeText, "|")
	types := make([]symtype.Type, 0, len(parts))
	for _, p := range parts {
		types = append(types, typeFromTagTextPart(node, p))
	}
	return symtype.NewCompound(types...)
}

func typeFromTagTextPart(node ast.Node, part string) symtype.Type {
	part = strings.TrimSpace(part)
	switch strings.ToLower(part) {
	case "int", "integer":
		return symtype.NewInteger()
	case "float", "double":
		return symtype.NewFloat()
	case "string":
		return symtype.NewString()
	case "bool", "boolean":
		return symtype.NewBoolean()
	case "array":
		return symtype.NewArray(nil, nil)
	case "mixed", "":
		return symtype.NewMixed()
	case "self":
		if cls, ok := EnclosingClassFqn(node); ok {
			return symtype.NewObject(cls)
		}
		return symtype.NewAnonymousObject()
	case "static":
		return symtype.NewStatic()
	case "$this", "this":
		return symtype.NewThis()
	default:
		return symtype.NewObject(fqn.Name(strings.TrimPrefix(part, "\\")))
	}
}
