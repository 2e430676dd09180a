package ast

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

var kindLabels = map[Kind]string{
	KindTranslationUnit: "TranslationUnitDecl",
	KindNamespace:       "NamespaceDecl",
	KindRecord:          "CXXRecordDecl",
	KindField:           "FieldDecl",
	KindFunction:        "FunctionDecl",
	KindVar:             "VarDecl",
	KindParam:           "ParmVarDecl",
	KindTypeAlias:       "TypedefDecl",
	KindBinaryOperator:  "BinaryOperator",
	KindUnaryOperator:   "UnaryOperator",
	KindDeclRef:         "DeclRefExpr",
	KindMemberRef:       "MemberExpr",
	KindCall:            "CallExpr",
	KindLiteral:         "Literal",
}

// Label returns the display name used for the node in dumps.
func (n *Node) Label() string {
	if n == nil {
		return "<<<NULL>>>"
	}
	if n.Kind == KindCall && n.Operator != "" {
		return "CXXOperatorCallExpr"
	}
	if label, ok := kindLabels[n.Kind]; ok {
		return label
	}
	if n.Syntax != "" {
		return n.Syntax
	}
	return string(n.Kind)
}

// Dump writes an indented structural dump of the tree rooted at n.
func Dump(w io.Writer, n *Node) error {
	bw := bufio.NewWriter(w)
	dumpNode(bw, n, "", "", nodeUnitPath(n))
	return bw.Flush()
}

// DumpString returns the dump of n as a string.
func DumpString(n *Node) string {
	var sb strings.Builder
	_ = Dump(&sb, n)
	return sb.String()
}

// Describe returns the single dump line for n.
func (n *Node) Describe() string {
	return describe(n, nodeUnitPath(n))
}

func nodeUnitPath(n *Node) string {
	if u := n.Unit(); u != nil {
		return u.Path
	}
	return ""
}

func dumpNode(w *bufio.Writer, n *Node, prefix, childPrefix, primary string) {
	w.WriteString(prefix)
	w.WriteString(describe(n, primary))
	w.WriteByte('\n')
	if n == nil {
		return
	}
	for i, c := range n.Children {
		if i == len(n.Children)-1 {
			dumpNode(w, c, childPrefix+"`-", childPrefix+"  ", primary)
		} else {
			dumpNode(w, c, childPrefix+"|-", childPrefix+"| ", primary)
		}
	}
}

func describe(n *Node, primary string) string {
	if n == nil {
		return "<<<NULL>>>"
	}

	var sb strings.Builder
	sb.WriteString(n.Label())
	sb.WriteString(" <")
	sb.WriteString(formatPos(n.Pos, primary))
	sb.WriteString(">")

	switch n.Kind {
	case KindRecord:
		if n.TagKind != "" {
			sb.WriteString(" " + n.TagKind)
		}
		if n.Name != "" {
			sb.WriteString(" " + n.Name)
		}
		for _, b := range n.Bases {
			sb.WriteString(" :")
			if b.Virtual {
				sb.WriteString(" virtual")
			}
			if b.Access != "" {
				sb.WriteString(" " + b.Access)
			}
			sb.WriteString(" '" + b.Name + "'")
			if b.IsExternal() {
				sb.WriteString(" (external)")
			}
		}
	case KindVar, KindParam, KindField, KindFunction, KindTypeAlias, KindNamespace:
		if n.Name != "" {
			sb.WriteString(" " + n.Name)
		}
		if n.Type != nil {
			fmt.Fprintf(&sb, " '%s'", n.Type.Spelling)
		}
	case KindBinaryOperator, KindUnaryOperator:
		fmt.Fprintf(&sb, " '%s'", n.Operator)
	case KindCall:
		if n.Operator != "" {
			fmt.Fprintf(&sb, " '%s'", n.Operator)
		}
	case KindDeclRef, KindMemberRef:
		fmt.Fprintf(&sb, " '%s'", n.Name)
		if target := n.ResolvesTo(); target != nil {
			fmt.Fprintf(&sb, " -> %s", target.Label())
			if target.Type != nil {
				fmt.Fprintf(&sb, " '%s'", target.Type.Spelling)
			}
		}
	case KindLiteral:
		fmt.Fprintf(&sb, " %s", n.Text)
	}
	return sb.String()
}

func formatPos(p Position, primary string) string {
	if !p.IsValid() {
		return "<invalid sloc>"
	}
	if p.File == primary {
		return fmt.Sprintf("line:%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}
