// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

// Script wires the page: section toggles, expand/collapse all, clipboard
// copy of thesis ids with a manual fallback, and the busy indicator shown
// while a search is submitted.
const Script = `(function () {
  "use strict";

  var COPY_REVERT_MS = 2000;
  var EMOJI_MS = 400;
  var MESSAGE_MS = 2500;

  function setExpanded(section, expanded) {
    var header = section.querySelector(".section-header");
    var body = section.querySelector(".section-body");
    section.classList.toggle("expanded", expanded);
    if (header) header.setAttribute("aria-expanded", String(expanded));
    if (body) body.hidden = !expanded;
  }

  function sections() {
    return Array.prototype.slice.call(document.querySelectorAll(".source-section"));
  }

  function toggle(key) {
    sections().forEach(function (s) {
      if (s.getAttribute("data-section") === key) {
        setExpanded(s, !s.classList.contains("expanded"));
      }
    });
  }

  function setAll(expanded) {
    sections().forEach(function (s) { setExpanded(s, expanded); });
  }

  function showManual(button, value) {
    var fail = document.body.getAttribute("data-copy-fail") || "";
    var span = document.createElement("span");
    span.className = "copy-manual";
    span.textContent = fail + " " + value;
    button.replaceWith(span);
  }

  function copy(button) {
    var value = button.getAttribute("data-copy");
    var original = button.textContent;
    var copied = document.body.getAttribute("data-copied") || original;
    if (!navigator.clipboard || !navigator.clipboard.writeText) {
      showManual(button, value);
      return;
    }
    navigator.clipboard.writeText(value).then(function () {
      button.textContent = copied;
      button.classList.add("copied");
      setTimeout(function () {
        button.textContent = original;
        button.classList.remove("copied");
      }, COPY_REVERT_MS);
    }, function () {
      showManual(button, value);
    });
  }

  function parseList(attr) {
    try {
      var v = JSON.parse(document.body.getAttribute(attr) || "[]");
      return Array.isArray(v) && v.length ? v : [""];
    } catch (e) {
      return [""];
    }
  }

  var loading = {
    timers: null,
    start: function () {
      if (this.timers) return;
      var box = document.getElementById("loading");
      if (!box) return;
      var emojis = parseList("data-emojis");
      var messages = parseList("data-messages");
      var e = 0, m = 0;
      var emojiEl = box.querySelector(".loading-emoji");
      var messageEl = box.querySelector(".loading-message");
      emojiEl.textContent = emojis[0];
      messageEl.textContent = messages[0];
      box.hidden = false;
      this.timers = [
        setInterval(function () { e = (e + 1) % emojis.length; emojiEl.textContent = emojis[e]; }, EMOJI_MS),
        setInterval(function () { m = (m + 1) % messages.length; messageEl.textContent = messages[m]; }, MESSAGE_MS)
      ];
    },
    stop: function () {
      if (!this.timers) return;
      this.timers.forEach(clearInterval);
      this.timers = null;
      var box = document.getElementById("loading");
      if (box) box.hidden = true;
    }
  };

  document.addEventListener("click", function (ev) {
    var t = ev.target.closest("[data-toggle],[data-action],[data-copy]");
    if (!t) return;
    if (t.hasAttribute("data-toggle")) {
      toggle(t.getAttribute("data-toggle"));
    } else if (t.getAttribute("data-action") === "expand-all") {
      setAll(true);
    } else if (t.getAttribute("data-action") === "collapse-all") {
      setAll(false);
    } else if (t.hasAttribute("data-copy")) {
      copy(t);
    }
  });

  var form = document.getElementById("search-form");
  if (form) {
    form.addEventListener("submit", function () {
      var results = document.getElementById("results");
      if (results) results.innerHTML = "";
      loading.start();
    });
  }
  window.addEventListener("pageshow", function () { loading.stop(); });
})();
`

// Stylesheet styles the result page.
const Stylesheet = `body {
  font-family: system-ui, -apple-system, "Segoe UI", sans-serif;
  color: #1f2937;
  background: #fff;
  margin: 0;
}
.container { max-width: 960px; margin: 0 auto; padding: 1.5rem 1rem; }
.search-form { display: flex; flex-wrap: wrap; gap: .75rem; align-items: flex-end; margin-bottom: 1.5rem; }
.search-form fieldset { border: 1px solid #e5e7eb; border-radius: .25rem; }
.loading { display: flex; gap: .5rem; align-items: center; font-size: 1.1rem; padding: 1rem 0; }
.loading[hidden] { display: none; }
.loading-emoji { font-size: 1.6rem; }
.error { border: 1px solid #fca5a5; background: #fef2f2; padding: 1rem; border-radius: .25rem; }
.no-results { padding: 1rem; color: #4b5563; }
.results-header { display: flex; gap: .75rem; align-items: baseline; flex-wrap: wrap; }
.results-total { color: #6b7280; }
.source-section { border: 1px solid #e5e7eb; border-radius: .25rem; margin: .75rem 0; }
.section-header {
  width: 100%; display: flex; justify-content: space-between;
  background: #f9fafb; border: 0; padding: .75rem 1rem; font-size: 1rem; cursor: pointer;
}
.section-header::before { content: "▸"; margin-right: .5rem; }
.source-section.expanded .section-header::before { content: "▾"; }
.section-body { margin: 0; padding: .5rem 1rem .5rem 2.5rem; }
.article { padding: .75rem 0; border-bottom: 1px solid #f3f4f6; }
.article:last-child { border-bottom: 0; }
.article-title { font-size: 1rem; margin: 0 0 .25rem; }
.article-authors, .article-meta { margin: .1rem 0; color: #4b5563; font-size: .875rem; }
.similarity { font-variant-numeric: tabular-nums; }
.keywords { list-style: none; display: flex; flex-wrap: wrap; gap: .25rem; padding: 0; margin: .4rem 0; }
.keyword { background: #eef2ff; color: #3730a3; border-radius: 999px; padding: .1rem .5rem; font-size: .75rem; }
.action { display: inline-block; margin-top: .4rem; font-size: .875rem; }
.action-copy { cursor: pointer; }
.action-copy.copied { color: #047857; }
.action-none, .copy-manual { color: #9ca3af; }
`
