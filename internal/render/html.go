package render

import (
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/adrianwedd/squishmallowdex/internal/domain"
)

// htmlRow is one table row, pre-resolved so the template stays dumb.
type htmlRow struct {
	domain.Squish
	SizesJoined string
	LocalImage  string
}

type htmlPage struct {
	Title string
	Rows  []htmlRow
}

// WriteHTML renders the browsable catalog. localImages maps record ID to a
// mirrored image path; records without one fall back to the remote URL.
// Records with an unknown year sort last.
func WriteHTML(path, title string, records domain.Snapshot, localImages map[string]string) error {
	sorted := make(domain.Snapshot, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		yi, yj := sorted[i].Year, sorted[j].Year
		if yi == 0 {
			yi = int(^uint(0) >> 1)
		}
		if yj == 0 {
			yj = int(^uint(0) >> 1)
		}
		if yi != yj {
			return yi < yj
		}
		return sorted[i].Name < sorted[j].Name
	})

	rows := make([]htmlRow, 0, len(sorted))
	for _, r := range sorted {
		row := htmlRow{
			Squish:      r,
			SizesJoined: strings.Join(r.Sizes, ", "),
		}
		if local, ok := localImages[r.ID]; ok {
			if rel, err := filepath.Rel(filepath.Dir(path), local); err == nil {
				row.LocalImage = filepath.ToSlash(rel)
			}
		}
		rows = append(rows, row)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "create output directory")
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create html file %s", path)
	}
	defer f.Close()

	if err := catalogTemplate.Execute(f, htmlPage{Title: title, Rows: rows}); err != nil {
		return errors.Wrap(err, "execute catalog template")
	}

	return nil
}

var catalogTemplate = template.Must(template.New("catalog").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1"/>
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; margin: 1rem; background: #faf7fc; }
h1 { color: #7c4dab; }
input#search { width: 100%; max-width: 28rem; padding: .5rem; margin-bottom: 1rem;
  border: 1px solid #c9b3e0; border-radius: .5rem; font-size: 1rem; }
table { border-collapse: collapse; width: 100%; background: #fff; }
th, td { border: 1px solid #e3d7ef; padding: .4rem .6rem; text-align: left;
  vertical-align: top; font-size: .9rem; }
th { background: #ede3f7; cursor: pointer; position: sticky; top: 0; }
img.thumb { max-width: 100px; max-height: 100px; border-radius: .4rem; }
td.bio { max-width: 28rem; }
.count { color: #666; margin-bottom: .5rem; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="count"><span id="visible">{{len .Rows}}</span> of {{len .Rows}} collectibles</p>
<input id="search" type="search" placeholder="Search by name, type, color, squad..."/>
<table id="catalog">
<thead>
<tr>
<th data-col="fav">&#9825;</th>
<th data-col="own">Own</th>
<th>Image</th>
<th data-sort="name">Name</th>
<th data-sort="type">Type</th>
<th data-sort="color">Color</th>
<th data-sort="squad">Squad</th>
<th>Sizes</th>
<th data-sort="number">#</th>
<th data-sort="year">Year</th>
<th>Bio</th>
<th>Page</th>
</tr>
</thead>
<tbody>
{{range .Rows}}
<tr data-id="{{.ID}}" data-name="{{.Name}}" data-type="{{.Type}}" data-color="{{.Color}}" data-squad="{{.Squad}}" data-number="{{.CollectorNumber}}" data-year="{{.Year}}">
<td><input type="checkbox" class="fav"/></td>
<td><input type="checkbox" class="own"/></td>
<td>{{if .LocalImage}}<a href="{{.ImageURL}}" target="_blank" rel="noopener"><img class="thumb" src="{{.LocalImage}}" loading="lazy"/></a>{{else if .ImageURL}}<a href="{{.ImageURL}}" target="_blank" rel="noopener"><img class="thumb" src="{{.ImageURL}}" loading="lazy"/></a>{{end}}</td>
<td>{{.Name}}</td>
<td>{{.Type}}</td>
<td>{{.Color}}</td>
<td>{{.Squad}}</td>
<td>{{.SizesJoined}}</td>
<td>{{if .CollectorNumber}}{{.CollectorNumber}}{{end}}</td>
<td>{{if .Year}}{{.Year}}{{end}}</td>
<td class="bio">{{.Bio}}</td>
<td>{{if .URL}}<a href="{{.URL}}" target="_blank" rel="noopener">wiki</a>{{end}}</td>
</tr>
{{end}}
</tbody>
</table>
<script>
(function () {
  var rows = Array.prototype.slice.call(document.querySelectorAll("#catalog tbody tr"));
  var visible = document.getElementById("visible");

  document.getElementById("search").addEventListener("input", function (e) {
    var q = e.target.value.toLowerCase();
    var shown = 0;
    rows.forEach(function (tr) {
      var hay = (tr.dataset.name + " " + tr.dataset.type + " " +
        tr.dataset.color + " " + tr.dataset.squad).toLowerCase();
      var show = hay.indexOf(q) !== -1;
      tr.style.display = show ? "" : "none";
      if (show) shown++;
    });
    visible.textContent = shown;
  });

  document.querySelectorAll("th[data-sort]").forEach(function (th) {
    var asc = true;
    th.addEventListener("click", function () {
      var key = th.dataset.sort;
      var numeric = key === "year" || key === "number";
      rows.sort(function (a, b) {
        var av = a.dataset[key], bv = b.dataset[key];
        if (numeric) {
          // unknown (0) always sorts last
          av = parseInt(av, 10) || Number.MAX_SAFE_INTEGER;
          bv = parseInt(bv, 10) || Number.MAX_SAFE_INTEGER;
          return asc ? av - bv : bv - av;
        }
        return asc ? av.localeCompare(bv) : bv.localeCompare(av);
      });
      asc = !asc;
      var tbody = document.querySelector("#catalog tbody");
      rows.forEach(function (tr) { tbody.appendChild(tr); });
    });
  });

  // favourite/own checkboxes persist in localStorage
  rows.forEach(function (tr) {
    ["fav", "own"].forEach(function (kind) {
      var box = tr.querySelector("input." + kind);
      var storageKey = "squishdex:" + kind + ":" + tr.dataset.id;
      box.checked = localStorage.getItem(storageKey) === "1";
      box.addEventListener("change", function () {
        if (box.checked) {
          localStorage.setItem(storageKey, "1");
        } else {
          localStorage.removeItem(storageKey);
        }
      });
    });
  });
})();
</script>
</body>
</html>
`))
