package diff3

// OpKind classifies a step of an edit script.
type OpKind int

const (
	Equal  OpKind = iota // line present in both a and b
	Insert               // line present in b only
	Delete               // line present in a only
)

// Op is one step of an edit script. A and B index into the two inputs;
// the index for the side a line is absent from is -1.
type Op struct {
	Kind OpKind
	A, B int
}

// MyersDiff returns a shortest edit script turning a into b, computed
// with Myers' O((N+M)D) greedy algorithm over whole lines.
func MyersDiff(a, b []string) []Op {
	n, m := len(a), len(b)
	if n == 0 && m == 0 {
		return nil
	}

	offset := n + m
	v := make([]int, 2*offset+2)
	var trace [][]int

search:
	for d := 0; d <= offset; d++ {
		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
				x = v[offset+k+1]
			} else {
				x = v[offset+k-1] + 1
			}
			y := x - k
			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}
			v[offset+k] = x
			if x >= n && y >= m {
				trace = append(trace, append([]int(nil), v...))
				break search
			}
		}
		trace = append(trace, append([]int(nil), v...))
	}

	ops := make([]Op, 0, n+m)
	x, y := n, m
	for d := len(trace) - 1; d > 0; d-- {
		prev := trace[d-1]
		k := x - y
		var pk int
		if k == -d || (k != d && prev[offset+k-1] < prev[offset+k+1]) {
			pk = k + 1
		} else {
			pk = k - 1
		}
		px := prev[offset+pk]
		py := px - pk
		for x > px && y > py {
			x--
			y--
			ops = append(ops, Op{Kind: Equal, A: x, B: y})
		}
		if pk == k-1 {
			x--
			ops = append(ops, Op{Kind: Delete, A: x, B: -1})
		} else {
			y--
			ops = append(ops, Op{Kind: Insert, A: -1, B: y})
		}
	}
	for x > 0 && y > 0 {
		x--
		y--
		ops = append(ops, Op{Kind: Equal, A: x, B: y})
	}

	for i, j := 0, len(ops)-1; i < j; i, j = i+1, j-1 {
		ops[i], ops[j] = ops[j], ops[i]
	}
	return ops
}

// matches maps every line of a to the index of the line of b it is paired
// with by MyersDiff, or -1 when it was deleted.
func matches(a, b []string) []int {
	m := make([]int, len(a))
	for i := range m {
		m[i] = -1
	}
	for _, op := range MyersDiff(a, b) {
		if op.Kind == Equal {
			m[op.A] = op.B
		}
	}
	return m
}
