package ember

// runtimePreamble is prepended to every generated C file. It declares the
// small runtime ABI the generator's lowering rules assume: an arena
// allocator, a boxed string, and a generic array, plus the helper
// functions every expression/statement lowering rule in genc.go calls
// by name. The functions themselves ship in a separate runtime library
// compiled alongside the generator's output (see SPEC_FULL.md §6); this
// file only needs to declare their shapes so the emitted C compiles.
const runtimePreamble = `/* generated by emberc; do not edit by hand */
#include <stdbool.h>
#include <stdint.h>
#include <stddef.h>

typedef struct RtArena RtArena;
typedef struct RtString RtString;
typedef struct RtArray RtArray;

/* Element kind tags, passed to the generic array helpers below since a
 * C RtArray* has no static element type of its own. */
typedef enum {
	RT_KIND_INT64,
	RT_KIND_DOUBLE,
	RT_KIND_CHAR,
	RT_KIND_BOOL,
	RT_KIND_STRING,
	RT_KIND_ARRAY,
} RtKind;

extern RtArena *rt_arena_create(void);
extern void rt_arena_destroy(RtArena *arena);

extern _Noreturn void rt_panic(const char *message);

extern RtString *rt_string_from_literal(RtArena *arena, const char *cstr, size_t len);
extern RtString *rt_string_concat(RtArena *arena, RtString *a, RtString *b);
extern const char *rt_string_cstr(RtString *s);
extern int64_t rt_string_length(RtString *s);
extern bool rt_string_equals(RtString *a, RtString *b);

extern RtString *rt_string_to_string_long(RtArena *arena, int64_t v);
extern RtString *rt_string_to_string_double(RtArena *arena, double v);
extern RtString *rt_string_to_string_char(RtArena *arena, int32_t v);
extern RtString *rt_string_to_string_bool(RtArena *arena, bool v);
extern RtString *rt_string_to_string_array(RtArena *arena, RtArray *v, RtKind elemKind);

extern RtString *rt_str_substring(RtArena *arena, RtString *s, int64_t from, int64_t to);
extern RtString *rt_str_trim(RtArena *arena, RtString *s);
extern RtString *rt_str_to_upper(RtArena *arena, RtString *s);
extern RtString *rt_str_to_lower(RtArena *arena, RtString *s);
extern bool rt_str_starts_with(RtString *s, RtString *prefix);
extern bool rt_str_ends_with(RtString *s, RtString *suffix);
extern bool rt_str_contains(RtString *s, RtString *needle);
extern RtString *rt_str_replace(RtArena *arena, RtString *s, RtString *from, RtString *to);
extern int32_t rt_str_char_at(RtString *s, int64_t index);
extern int64_t rt_str_index_of(RtString *s, RtString *needle);
extern RtArray *rt_str_split(RtArena *arena, RtString *s, RtString *sep);

extern RtArray *rt_array_new(RtArena *arena, RtKind elemKind, int64_t capacityHint);
extern int64_t rt_array_length(RtArray *a);
extern void rt_array_set(RtArray *a, int64_t index, int64_t slot);
extern int64_t rt_array_get(RtArray *a, int64_t index);
extern void rt_array_push(RtArena *arena, RtArray *a, int64_t slot);
extern int64_t rt_array_pop(RtArray *a);
extern void rt_array_clear(RtArray *a);
extern RtArray *rt_array_concat(RtArena *arena, RtArray *a, RtArray *b);
extern RtArray *rt_array_reverse(RtArena *arena, RtArray *a);
extern int64_t rt_array_remove(RtArray *a, int64_t index);
extern void rt_array_insert(RtArray *a, int64_t index, int64_t slot);
extern bool rt_array_contains(RtArray *a, int64_t slot, RtKind elemKind);
extern int64_t rt_array_index_of(RtArray *a, int64_t slot, RtKind elemKind);
extern RtArray *rt_array_clone(RtArena *arena, RtArray *a);
extern RtString *rt_array_join(RtArena *arena, RtArray *a, RtString *sep);
extern RtArray *rt_array_range(RtArena *arena, int64_t start, int64_t end);
extern RtArray *rt_array_slice(RtArena *arena, RtArray *a, int64_t from, int64_t to);

/* Arithmetic and comparison default to these runtime calls rather than
 * native C operators (see GenOptions.NativeArithmetic); long stands in
 * for both the `int` and `long` source types, which share this 64-bit
 * signed representation. */
extern int64_t rt_add_long(int64_t a, int64_t b);
extern int64_t rt_sub_long(int64_t a, int64_t b);
extern int64_t rt_mul_long(int64_t a, int64_t b);
extern double rt_add_double(double a, double b);
extern double rt_sub_double(double a, double b);
extern double rt_mul_double(double a, double b);

extern bool rt_eq_long(int64_t a, int64_t b);
extern bool rt_lt_long(int64_t a, int64_t b);
extern bool rt_lte_long(int64_t a, int64_t b);
extern bool rt_gt_long(int64_t a, int64_t b);
extern bool rt_gte_long(int64_t a, int64_t b);
extern bool rt_eq_double(double a, double b);
extern bool rt_lt_double(double a, double b);
extern bool rt_lte_double(double a, double b);
extern bool rt_gt_double(double a, double b);
extern bool rt_gte_double(double a, double b);
extern bool rt_eq_string(RtString *a, RtString *b);
extern bool rt_lt_string(RtString *a, RtString *b);
extern bool rt_lte_string(RtString *a, RtString *b);
extern bool rt_gt_string(RtString *a, RtString *b);
extern bool rt_gte_string(RtString *a, RtString *b);

extern int64_t rt_checked_div_long(int64_t a, int64_t b);
extern int64_t rt_checked_mod_long(int64_t a, int64_t b);
extern double rt_checked_div_double(double a, double b);
extern int64_t rt_checked_index(int64_t index, int64_t length);

/* RtArray stores every scalar element as a 64-bit slot regardless of its
 * Ember element type; a double's bits are reinterpreted rather than
 * truncated by a numeric conversion. */
extern int64_t rt_double_to_slot(double v);
extern double rt_slot_to_double(int64_t slot);

extern void rt_print(RtString *s);
`
