package mcpserver

// Tool descriptions with interpretation guidance for LLMs.

func describeInheritance() string {
	return `Collects every class, struct and union declared in each C++ translation unit's main file and classifies where its base classes live.

USE WHEN:
- Mapping a class hierarchy before refactoring a C++ code base
- Finding classes that only extend third-party or system types
- Locating the roots of a hierarchy (classes nothing in the file derives from)

INTERPRETING RESULTS:
- derives_from_collected: the class derives, directly or through other bases, from a class declared in the same file; derives_from lists them
- external_bases_only: the class has bases but none of them lead back to a class declared in the file
- base_only: the class has no bases at all
- Declarations pulled in from headers are never reported; analyze the header directly with headers=true
- A forward declaration and its definition are reported separately

METRICS RETURNED:
- Per-file: classes with name, kind, line, column, category, base_count, derives_from
- Summary: totals per category, deepest in-file inheritance chain (max_depth)`
}

func describeOperations() string {
	return `Counts floating-point operations and variable references in C and C++ translation units.

USE WHEN:
- Estimating the arithmetic intensity of numeric kernels
- Comparing two implementations of the same algorithm
- Checking how much of a file's work happens in included headers (primary_file_only)

INTERPRETING RESULTS:
- flops: binary operators (including assignments and comparisons) with an operand that references a float, double or long double variable anywhere inside it
- memops: every reference to a variable or parameter; field accesses and function names are not counted
- Nested operators count once each, so a*b+c counts as two flops
- Operations inside headers the file includes are counted unless primary_file_only is set
- Both counts are the same whether queries share one walk or use separate_passes

METRICS RETURNED:
- Per-file: flops, memops, and with sites=true the file:line:column of every counted node
- Summary: total files, flops and memops`
}
