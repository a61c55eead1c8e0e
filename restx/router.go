package restx

import "strings"

// Verb is the closed set of supported request methods.
type Verb int

const (
	GET Verb = iota
	POST
	PUT
	DELETE
	PATCH
)

func (v Verb) String() string {
	switch v {
	case GET:
		return "GET"
	case POST:
		return "POST"
	case PUT:
		return "PUT"
	case DELETE:
		return "DELETE"
	case PATCH:
		return "PATCH"
	default:
		return "INVALID"
	}
}

func verbFromMethod(method string) (Verb, error) {
	switch method {
	case "GET":
		return GET, nil
	case "POST":
		return POST, nil
	case "PUT":
		return PUT, nil
	case "DELETE":
		return DELETE, nil
	case "PATCH":
		return PATCH, nil
	default:
		return 0, &ProtocolError{Kind: KindMethodNotImplemented, Detail: method}
	}
}

// routeTrie stores one verb's routes as an arena of segment nodes.
// Children are index lists into the arena, so insertion mutates in place
// instead of rebuilding the path from the root. Keys starting with ':' are
// parameter segments; node 0 is the root.
type routeTrie[T any] struct {
	nodes []routeNode[T]
}

type routeNode[T any] struct {
	key    string
	item   *T
	childs []int32
}

func newRouteTrie[T any]() *routeTrie[T] {
	return &routeTrie[T]{nodes: make([]routeNode[T], 1)}
}

// uniformPath strips one leading and one trailing slash; "" and "/" both
// denote the root.
func uniformPath(path string) string {
	path = strings.TrimPrefix(path, "/")
	return strings.TrimSuffix(path, "/")
}

// add registers item under path. A duplicate fully-specified path fails
// with ErrRouteExists; a parameter segment whose name differs from the
// parameter already occupying that slot fails with ParamMismatchError.
func (t *routeTrie[T]) add(path string, item T) error {
	curr := int32(0)
	if p := uniformPath(path); p != "" {
		for _, seg := range strings.Split(p, "/") {
			next, err := t.child(curr, seg)
			if err != nil {
				return err
			}
			curr = next
		}
	}
	if t.nodes[curr].item != nil {
		return ErrRouteExists
	}
	t.nodes[curr].item = &item
	return nil
}

// child returns the child of parent whose key equals seg exactly, creating
// it if absent. At most one parameter child may exist per node.
func (t *routeTrie[T]) child(parent int32, seg string) (int32, error) {
	isParam := strings.HasPrefix(seg, ":")
	for _, idx := range t.nodes[parent].childs {
		key := t.nodes[idx].key
		if key == seg {
			return idx, nil
		}
		if isParam && strings.HasPrefix(key, ":") {
			return 0, &ParamMismatchError{Existing: key[1:], New: seg[1:]}
		}
	}
	t.nodes = append(t.nodes, routeNode[T]{key: seg})
	idx := int32(len(t.nodes) - 1)
	t.nodes[parent].childs = append(t.nodes[parent].childs, idx)
	return idx, nil
}

// find walks the trie segment by segment. A fixed node matches only an
// identical literal; a parameter node matches any segment that is not
// itself a ':'-prefixed token and binds its name to the segment value.
// Children are scanned linearly, so when a literal and a parameter sibling
// could both match, the one registered first wins.
func (t *routeTrie[T]) find(path string) (*T, map[string]string, bool) {
	curr := int32(0)
	params := map[string]string{}
	if p := uniformPath(path); p != "" {
		for _, seg := range strings.Split(p, "/") {
			matched := false
			for _, idx := range t.nodes[curr].childs {
				key := t.nodes[idx].key
				if key == seg {
					curr, matched = idx, true
					break
				}
				if strings.HasPrefix(key, ":") && !strings.HasPrefix(seg, ":") {
					params[key[1:]] = seg
					curr, matched = idx, true
					break
				}
			}
			if !matched {
				return nil, nil, false
			}
		}
	}
	item := t.nodes[curr].item
	if item == nil {
		return nil, nil, false
	}
	return item, params, true
}

// verbRoutes holds one trie per verb. Built during configuration,
// immutable once the server starts serving.
type verbRoutes[T any] struct {
	tries [5]*routeTrie[T]
}

func newVerbRoutes[T any]() verbRoutes[T] {
	var r verbRoutes[T]
	for i := range r.tries {
		r.tries[i] = newRouteTrie[T]()
	}
	return r
}

func (r verbRoutes[T]) forVerb(v Verb) *routeTrie[T] {
	return r.tries[v]
}
