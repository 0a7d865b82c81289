package hierarchy

import "fmt"

// BuildForest arranges the active roster into reporting trees. Bad supervisor
// references never fail the build; see BuildForestWithIssues for what was
// repaired.
func BuildForest(employees []Employee) []Node {
	forest, _ := BuildForestWithIssues(employees)
	return forest
}

func BuildForestWithIssues(employees []Employee) ([]Node, []IntegrityIssue) {
	r := resolve(employees)

	children := make(map[string][]string, len(r.order))
	var roots []string
	for _, id := range r.order {
		parent := r.parent[id]
		if parent == "" {
			roots = append(roots, id)
			continue
		}
		children[parent] = append(children[parent], id)
	}

	built := make(map[string]bool, len(r.order))
	var build func(id string) Node
	build = func(id string) Node {
		built[id] = true
		emp := r.index[id]
		node := Node{EmployeeID: emp.ID, Name: emp.Name, Position: emp.Position, DirectReports: []Node{}}
		for _, child := range children[id] {
			if built[child] {
				continue
			}
			node.DirectReports = append(node.DirectReports, build(child))
		}
		return node
	}

	forest := make([]Node, 0, len(roots))
	for _, id := range roots {
		forest = append(forest, build(id))
	}
	return forest, r.issues
}

// ReportingDepth is the length of the supervisor chain ending at id, counting
// id itself. The second result is false when id is not an active employee.
func ReportingDepth(employees []Employee, id string) (int, bool) {
	r := resolve(employees)
	if _, ok := r.index[id]; !ok {
		return 0, false
	}
	return r.depth(id), true
}

func SpanOfControl(node Node) int {
	return len(node.DirectReports)
}

// FindNode searches the forest depth-first for id.
func FindNode(forest []Node, id string) (Node, bool) {
	for _, n := range forest {
		if n.EmployeeID == id {
			return n, true
		}
		if found, ok := FindNode(n.DirectReports, id); ok {
			return found, true
		}
	}
	return Node{}, false
}

func HierarchyDepth(forest []Node) int {
	visiting := map[string]bool{}
	var depth func(n Node) int
	depth = func(n Node) int {
		if visiting[n.EmployeeID] {
			return 1
		}
		visiting[n.EmployeeID] = true
		defer delete(visiting, n.EmployeeID)
		best := 0
		for _, child := range n.DirectReports {
			if d := depth(child); d > best {
				best = d
			}
		}
		return 1 + best
	}

	maxDepth := 0
	for _, root := range forest {
		if d := depth(root); d > maxDepth {
			maxDepth = d
		}
	}
	return maxDepth
}

type resolved struct {
	order  []string
	index  map[string]Employee
	parent map[string]string
	issues []IntegrityIssue
}

func resolve(employees []Employee) resolved {
	r := resolved{
		index:  make(map[string]Employee, len(employees)),
		parent: make(map[string]string, len(employees)),
	}
	known := make(map[string]Employee, len(employees))
	for _, emp := range employees {
		if emp.ID == "" {
			continue
		}
		if _, ok := known[emp.ID]; !ok {
			known[emp.ID] = emp
		}
		if !emp.Active {
			continue
		}
		if _, dup := r.index[emp.ID]; dup {
			r.issues = append(r.issues, IntegrityIssue{EmployeeID: emp.ID, Kind: IssueDuplicateID, Detail: "duplicate roster entry ignored"})
			continue
		}
		r.index[emp.ID] = emp
		r.order = append(r.order, emp.ID)
	}

	for _, id := range r.order {
		sup := r.index[id].SupervisorID
		switch {
		case sup == "":
		case sup == id:
			r.issues = append(r.issues, IntegrityIssue{EmployeeID: id, Kind: IssueSelfReference, Detail: "employee is their own supervisor"})
		default:
			if _, ok := r.index[sup]; ok {
				r.parent[id] = sup
				continue
			}
			kind := IssueMissingSupervisor
			if _, ok := known[sup]; ok {
				kind = IssueInactiveSupervisor
			}
			r.issues = append(r.issues, IntegrityIssue{EmployeeID: id, Kind: kind, Detail: fmt.Sprintf("supervisor %s not in active roster", sup)})
		}
	}

	// Members of a supervisor cycle become roots. Edges are only dropped after
	// every member is known so the whole loop is detected.
	var cyclic []string
	for _, id := range r.order {
		if r.onCycle(id) {
			cyclic = append(cyclic, id)
		}
	}
	for _, id := range cyclic {
		r.issues = append(r.issues, IntegrityIssue{EmployeeID: id, Kind: IssueSupervisorCycle, Detail: fmt.Sprintf("supervisor chain returns to %s", id)})
		delete(r.parent, id)
	}
	return r
}

func (r resolved) onCycle(id string) bool {
	visiting := map[string]bool{id: true}
	cur := r.parent[id]
	for cur != "" {
		if cur == id {
			return true
		}
		if visiting[cur] {
			return false
		}
		visiting[cur] = true
		cur = r.parent[cur]
	}
	return false
}

func (r resolved) depth(id string) int {
	visiting := map[string]bool{}
	depth := 0
	for cur := id; cur != ""; cur = r.parent[cur] {
		if visiting[cur] {
			return 1
		}
		visiting[cur] = true
		depth++
	}
	return depth
}
